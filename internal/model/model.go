package model

import "time"

type OnboardingStage string

const (
	StageNew       OnboardingStage = "new"
	StageExploring OnboardingStage = "exploring"
	StageConfirmed OnboardingStage = "confirmed"
	StageCommitted OnboardingStage = "committed"
)

type UserMode string

const (
	ModeFulltime UserMode = "fulltime"
	ModeCareer   UserMode = "career"
	ModeHabit    UserMode = "habit"
	ModeCustom   UserMode = "custom"
)

type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
	SlotWeekend   TimeSlot = "weekend"
)

type RecordType string

const (
	RecordManual   RecordType = "manual"
	RecordTimer    RecordType = "timer"
	RecordPomodoro RecordType = "pomodoro"
)

// Milestones are the fixed cumulative-hour thresholds, ascending.
var Milestones = []int{100, 500, 1000, 5000, 10000}

const (
	DefaultUserID         = "default"
	DefaultPureTarget     = 6.0
	ExplorationPeriodDays = 14
	GridPageSize          = 100
)

// DefaultPureTargets maps a user mode to its recommended daily target.
var DefaultPureTargets = map[UserMode]float64{
	ModeFulltime: 8,
	ModeCareer:   4,
	ModeHabit:    2,
	ModeCustom:   6,
}

type Goal struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon,omitempty"`
	Description      string     `json:"description,omitempty"`
	Color            string     `json:"color"`
	StartDate        time.Time  `json:"startDate"`
	TargetHours      int        `json:"targetHours"`
	DailyPureTarget  float64    `json:"dailyPureTarget"`
	ConstitutionMode bool       `json:"constitutionMode"`
	CurrentHours     float64    `json:"currentHours"`
	CurrentMilestone int        `json:"currentMilestone"`
	IsActive         bool       `json:"isActive"`
	IsArchived       bool       `json:"isArchived"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type TimeRecord struct {
	ID               string     `json:"id"`
	GoalID           string     `json:"goalId"`
	UserID           string     `json:"userId"`
	Date             time.Time  `json:"date"`
	Hours            int        `json:"hours"`
	Minutes          int        `json:"minutes"`
	TotalMinutes     int        `json:"totalMinutes"`
	TimeSlot         TimeSlot   `json:"timeSlot,omitempty"`
	EnergyLevel      *int       `json:"energyLevel,omitempty"`
	Type             RecordType `json:"type"`
	ConstitutionKept bool       `json:"constitutionKept"`
	Note             string     `json:"note,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// HourValue is the record's contribution to the goal total.
func (r TimeRecord) HourValue() float64 {
	return float64(r.Hours) + float64(r.Minutes)/60
}

type UserConfig struct {
	UserID             string
	OnboardingStage    OnboardingStage
	ExplorationDays    int
	CustomPureTarget   float64
	ConstitutionActive bool
	ConstitutionStreak int
	ConstitutionBest   int
	LastActivityDay    string
	LastCreditedDay    string
	LastSettledDay     string
	UserMode           UserMode
	Theme              string
	TotalGoals         int
	TotalRecords       int
	LastRecordDate     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type ConstitutionMiss struct {
	ID     int64
	UserID string
	Day    string
	Hours  float64
	Reason string
}

type ExplorationDay struct {
	ID     int64
	UserID string
	Day    int
	Hours  float64
	Date   time.Time
	Notes  string
}

type Quote struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	Source       string    `json:"source,omitempty"`
	Category     string    `json:"category,omitempty"`
	DisplayCount int       `json:"displayCount"`
	IsCustom     bool      `json:"isCustom"`
	IsFavorite   bool      `json:"isFavorite"`
	CreatedAt    time.Time `json:"createdAt"`
}

type GridCell struct {
	Index        int        `json:"index"`
	AbsoluteHour int        `json:"absoluteHour"`
	Filled       bool       `json:"filled"`
	FilledAt     *time.Time `json:"filledAt,omitempty"`
}

type GridPage struct {
	PageIndex   int        `json:"pageIndex"`
	StartHour   int        `json:"startHour"`
	EndHour     int        `json:"endHour"`
	Cells       []GridCell `json:"cells"`
	FilledCount int        `json:"filledCount"`
	IsCompleted bool       `json:"isCompleted"`
}

type ProgressInfo struct {
	CurrentHours      float64 `json:"currentHours"`
	TargetHours       int     `json:"targetHours"`
	Percentage        float64 `json:"percentage"`
	CurrentMilestone  int     `json:"currentMilestone"`
	NextMilestone     int     `json:"nextMilestone,omitempty"`
	MilestoneProgress float64 `json:"milestoneProgress"`
}

type Statistics struct {
	GoalID                 string               `json:"goalId"`
	TotalHours             float64              `json:"totalHours"`
	TotalRecords           int                  `json:"totalRecords"`
	AverageDaily           float64              `json:"averageDaily"`
	TimeSlotDistribution   map[TimeSlot]float64 `json:"timeSlotDistribution"`
	ConstitutionKeptDays   int                  `json:"constitutionKeptDays"`
	ConstitutionTotalDays  int                  `json:"constitutionTotalDays"`
	ConstitutionRate       float64              `json:"constitutionRate"`
	CurrentStreak          int                  `json:"currentStreak"`
	BestStreak             int                  `json:"bestStreak"`
	EstimatedRemainingDays int                  `json:"estimatedRemainingDays"`
	CalculatedAt           time.Time            `json:"calculatedAt"`
}
