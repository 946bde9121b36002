package progress

import (
	"math"
	"sort"

	"github.com/pure8plus/pure8/internal/model"
)

// TotalPages returns how many 100-hour pages the goal target spans.
func TotalPages(targetHours int) int {
	if targetHours <= 0 {
		return 1
	}
	return (targetHours + model.GridPageSize - 1) / model.GridPageSize
}

// CurrentPage returns the page the goal's running total falls on,
// clamped into the valid page range.
func CurrentPage(goal model.Goal) int {
	page := int(math.Floor(goal.CurrentHours / model.GridPageSize))
	if last := TotalPages(goal.TargetHours) - 1; page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// GridData derives one page of the hour grid purely from the goal's
// running total. Nothing here is stored, so the grid can never drift
// from the ledger.
func GridData(goal model.Goal, pageIndex int) model.GridPage {
	startHour := pageIndex * model.GridPageSize
	fullHours := int(math.Floor(goal.CurrentHours))

	page := model.GridPage{
		PageIndex: pageIndex,
		StartHour: startHour,
		EndHour:   startHour + model.GridPageSize - 1,
		Cells:     make([]model.GridCell, model.GridPageSize),
	}
	for i := range page.Cells {
		absolute := startHour + i
		cell := model.GridCell{
			Index:        i,
			AbsoluteHour: absolute,
			Filled:       absolute < fullHours,
		}
		if cell.Filled {
			page.FilledCount++
		}
		page.Cells[i] = cell
	}
	page.IsCompleted = page.FilledCount == model.GridPageSize
	return page
}

// GridDataWithFillTimes is GridData plus a best-effort fill timestamp
// per cell, inferred by walking the records oldest-first and crediting
// each cell to the record whose running total first covered its hour.
// Approximate by nature; display only.
func GridDataWithFillTimes(goal model.Goal, records []model.TimeRecord, pageIndex int) model.GridPage {
	page := GridData(goal, pageIndex)

	ordered := make([]model.TimeRecord, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	cumulative := 0.0
	for _, record := range ordered {
		before := int(math.Floor(cumulative))
		cumulative += record.HourValue()
		after := int(math.Floor(cumulative))
		for hour := before; hour < after; hour++ {
			idx := hour - page.StartHour
			if idx < 0 || idx >= len(page.Cells) || !page.Cells[idx].Filled {
				continue
			}
			at := record.Date
			page.Cells[idx].FilledAt = &at
		}
	}
	return page
}
