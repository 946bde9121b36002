package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pure8plus/pure8/internal/model"
	"github.com/pure8plus/pure8/internal/progress"
	"github.com/pure8plus/pure8/internal/quote"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))

type Server struct {
	engine *progress.Service
	quotes *quote.Service
}

func NewServer(engine *progress.Service, quotes *quote.Service) *Server {
	return &Server{engine: engine, quotes: quotes}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/api/goal", s.apiGoalHandler)
	mux.HandleFunc("/api/goals", s.apiGoalsHandler)
	mux.HandleFunc("/api/progress", s.apiProgressHandler)
	mux.HandleFunc("/api/grid", s.apiGridHandler)
	mux.HandleFunc("/api/records", s.apiRecordsHandler)
	mux.HandleFunc("/api/records/", s.apiRecordHandler)
	mux.HandleFunc("/api/quote", s.apiQuoteHandler)
	mux.HandleFunc("/api/quotes/favorites", s.apiQuoteFavoritesHandler)
	mux.HandleFunc("/api/quotes/", s.apiQuoteFavoriteHandler)
	mux.HandleFunc("/api/stats", s.apiStatsHandler)
	mux.HandleFunc("/export", s.exportHandler)
	return mux
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctx := context.Background()
	goal, err := s.engine.ActiveGoal(ctx)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		writeError(w, err)
		return
	}

	data := struct {
		HasGoal    bool
		Goal       model.Goal
		Info       model.ProgressInfo
		Page       model.GridPage
		TodayTotal float64
		Quote      model.Quote
	}{}

	if err == nil {
		data.HasGoal = true
		data.Goal = goal
		data.Info = progress.Info(goal)
		data.Page = progress.GridData(goal, progress.CurrentPage(goal))
		if total, err := s.engine.TodayTotal(ctx, goal.ID); err == nil {
			data.TodayTotal = total
		}
	}
	if picked, err := s.quotes.Daily(ctx, time.Now()); err == nil {
		data.Quote = picked
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, err)
	}
}

func (s *Server) apiGoalHandler(w http.ResponseWriter, r *http.Request) {
	goal, err := s.engine.ActiveGoal(context.Background())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, goal)
}

func (s *Server) apiGoalsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	switch r.Method {
	case http.MethodGet:
		goals, err := s.engine.Goals(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, goals)
	case http.MethodPost:
		var input progress.CreateGoalInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, fmt.Errorf("invalid request body: %w", model.ErrValidation))
			return
		}
		goal, err := s.engine.CreateGoal(ctx, input)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, goal)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiProgressHandler(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	goal, err := s.engine.ActiveGoal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	total, err := s.engine.TodayTotal(ctx, goal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := struct {
		Goal       model.Goal         `json:"goal"`
		Info       model.ProgressInfo `json:"info"`
		TodayTotal float64            `json:"todayTotal"`
	}{Goal: goal, Info: progress.Info(goal), TodayTotal: total}

	writeJSON(w, payload)
}

func (s *Server) apiGridHandler(w http.ResponseWriter, r *http.Request) {
	goal, err := s.engine.ActiveGoal(context.Background())
	if err != nil {
		writeError(w, err)
		return
	}

	page := progress.CurrentPage(goal)
	if value := strings.TrimSpace(r.URL.Query().Get("page")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			writeError(w, fmt.Errorf("invalid page %q: %w", value, model.ErrValidation))
			return
		}
		page = parsed
	}

	writeJSON(w, progress.GridData(goal, page))
}

func (s *Server) apiRecordsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	switch r.Method {
	case http.MethodGet:
		goal, err := s.engine.ActiveGoal(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		records, err := s.engine.RecordsForGoal(ctx, goal.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, records)
	case http.MethodPost:
		var input struct {
			GoalID  string         `json:"goalId"`
			Date    *time.Time     `json:"date"`
			Hours   int            `json:"hours"`
			Minutes int            `json:"minutes"`
			Slot    model.TimeSlot `json:"timeSlot"`
			Note    string         `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, fmt.Errorf("invalid request body: %w", model.ErrValidation))
			return
		}

		add := progress.AddRecordInput{
			GoalID:   input.GoalID,
			Hours:    input.Hours,
			Minutes:  input.Minutes,
			TimeSlot: input.Slot,
			Note:     input.Note,
		}
		if input.Date != nil {
			add.Date = *input.Date
		}

		record, err := s.engine.AddRecord(ctx, add)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, record)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiRecordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Path, "/api/records/")
	if err != nil {
		writeError(w, fmt.Errorf("%v: %w", err, model.ErrValidation))
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.engine.DeleteRecord(context.Background(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiQuoteHandler(w http.ResponseWriter, r *http.Request) {
	picked, err := s.quotes.Daily(context.Background(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, picked)
}

func (s *Server) apiQuoteFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.quotes.Favorites(context.Background())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, favorites)
}

// apiQuoteFavoriteHandler toggles the favorite mark:
// POST /api/quotes/{id}/favorite.
func (s *Server) apiQuoteFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	rest, err := parseID(r.URL.Path, "/api/quotes/")
	if err != nil {
		writeError(w, fmt.Errorf("%v: %w", err, model.ErrValidation))
		return
	}
	id, ok := strings.CutSuffix(rest, "/favorite")
	if !ok || id == "" {
		writeError(w, fmt.Errorf("invalid path: %w", model.ErrValidation))
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.quotes.ToggleFavorite(context.Background(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	goal, err := s.engine.ActiveGoal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := s.engine.Stats(ctx, goal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	goal, err := s.engine.ActiveGoal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pure8-export.json"`)
	if err := s.engine.WriteExport(ctx, w, goal.ID); err != nil {
		writeError(w, err)
	}
}

func parseID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("invalid path")
	}
	value := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if value == "" {
		return "", fmt.Errorf("missing id")
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
