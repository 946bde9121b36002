package progress

import (
	"context"
	"fmt"

	"github.com/pure8plus/pure8/internal/model"
)

// StartExploration moves a fresh user into the exploration period used
// to find a realistic daily target before committing to one.
func (s *Service) StartExploration(ctx context.Context) error {
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return err
	}
	if cfg.OnboardingStage != model.StageNew {
		return fmt.Errorf("exploration already started: %w", model.ErrValidation)
	}
	cfg.OnboardingStage = model.StageExploring
	cfg.ExplorationDays = 0
	return s.store.UpdateUserConfig(ctx, cfg)
}

// LogExplorationDay records one exploration day's achieved hours.
func (s *Service) LogExplorationDay(ctx context.Context, hours float64, notes string) (model.ExplorationDay, error) {
	if hours < 0 {
		return model.ExplorationDay{}, fmt.Errorf("hours must be >= 0: %w", model.ErrValidation)
	}
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return model.ExplorationDay{}, err
	}
	if cfg.OnboardingStage != model.StageExploring {
		return model.ExplorationDay{}, fmt.Errorf("not in exploration period: %w", model.ErrValidation)
	}
	if cfg.ExplorationDays >= model.ExplorationPeriodDays {
		return model.ExplorationDay{}, fmt.Errorf("exploration period is complete: %w", model.ErrValidation)
	}

	day := model.ExplorationDay{
		UserID: s.userID,
		Day:    cfg.ExplorationDays + 1,
		Hours:  hours,
		Date:   s.now(),
		Notes:  notes,
	}
	if err := s.store.AddExplorationDay(ctx, day); err != nil {
		return model.ExplorationDay{}, err
	}

	cfg.ExplorationDays++
	if err := s.store.UpdateUserConfig(ctx, cfg); err != nil {
		return model.ExplorationDay{}, err
	}
	return day, nil
}

// CompleteExploration averages the logged exploration days into a
// recommended daily target and confirms it as the user's custom one.
func (s *Service) CompleteExploration(ctx context.Context) (float64, error) {
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return 0, err
	}
	if cfg.OnboardingStage != model.StageExploring {
		return 0, fmt.Errorf("not in exploration period: %w", model.ErrValidation)
	}

	days, err := s.store.ListExplorationDays(ctx, s.userID)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, fmt.Errorf("no exploration days logged: %w", model.ErrValidation)
	}

	total := 0.0
	for _, day := range days {
		total += day.Hours
	}
	recommended := round1(total / float64(len(days)))

	cfg.OnboardingStage = model.StageConfirmed
	cfg.CustomPureTarget = recommended
	if err := s.store.UpdateUserConfig(ctx, cfg); err != nil {
		return 0, err
	}
	return recommended, nil
}

// ActivateConstitution commits the user to a daily target: from here on
// every day is judged kept or missed against it.
func (s *Service) ActivateConstitution(ctx context.Context, target float64) error {
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return err
	}
	if target > 0 {
		cfg.CustomPureTarget = target
	}
	cfg.ConstitutionActive = true
	cfg.OnboardingStage = model.StageCommitted
	return s.store.UpdateUserConfig(ctx, cfg)
}

// SetPureTarget overrides the user's daily target directly.
func (s *Service) SetPureTarget(ctx context.Context, target float64) error {
	if target <= 0 {
		return fmt.Errorf("daily target must be positive: %w", model.ErrValidation)
	}
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return err
	}
	cfg.CustomPureTarget = target
	return s.store.UpdateUserConfig(ctx, cfg)
}

// SetUserMode picks a lifestyle preset and adopts its daily target.
func (s *Service) SetUserMode(ctx context.Context, mode model.UserMode) error {
	target, ok := model.DefaultPureTargets[mode]
	if !ok {
		return fmt.Errorf("unknown user mode %q: %w", mode, model.ErrValidation)
	}
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return err
	}
	cfg.UserMode = mode
	if mode != model.ModeCustom {
		cfg.CustomPureTarget = target
	}
	return s.store.UpdateUserConfig(ctx, cfg)
}

func (s *Service) ExplorationDays(ctx context.Context) ([]model.ExplorationDay, error) {
	return s.store.ListExplorationDays(ctx, s.userID)
}
