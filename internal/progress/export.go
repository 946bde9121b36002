package progress

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pure8plus/pure8/internal/model"
)

// ExportVersion identifies the backup document layout.
const ExportVersion = 1

type ExportDocument struct {
	Version    int                `json:"version"`
	Goal       model.Goal         `json:"goal"`
	Records    []model.TimeRecord `json:"records"`
	ExportedAt time.Time          `json:"exportedAt"`
}

// Export builds a flat backup of a goal and its full ledger.
func (s *Service) Export(ctx context.Context, goalID string) (ExportDocument, error) {
	goal, err := s.resolveGoal(ctx, goalID)
	if err != nil {
		return ExportDocument{}, err
	}
	records, err := s.store.ListRecordsForGoal(ctx, goal.ID)
	if err != nil {
		return ExportDocument{}, err
	}
	return ExportDocument{
		Version:    ExportVersion,
		Goal:       goal,
		Records:    records,
		ExportedAt: s.now(),
	}, nil
}

// WriteExport streams the backup document as indented JSON.
func (s *Service) WriteExport(ctx context.Context, w io.Writer, goalID string) error {
	doc, err := s.Export(ctx, goalID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
