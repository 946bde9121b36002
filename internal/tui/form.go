package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/pure8plus/pure8/internal/model"
	"github.com/pure8plus/pure8/internal/progress"
)

type formField struct {
	Label string
	Value string
}

const (
	recordFieldHours = iota
	recordFieldMinutes
	recordFieldSlot
	recordFieldDate
	recordFieldNote
)

const (
	goalFieldName = iota
	goalFieldIcon
	goalFieldTarget
	goalFieldDaily
	goalFieldDescription
)

var slotOrder = []string{
	"",
	string(model.SlotMorning),
	string(model.SlotAfternoon),
	string(model.SlotEvening),
	string(model.SlotNight),
	string(model.SlotWeekend),
}

func buildRecordFields() []formField {
	return []formField{
		{Label: "Hours"},
		{Label: "Minutes"},
		{Label: "Slot (space/←→)"},
		{Label: "Date (YYYY-MM-DD)"},
		{Label: "Note"},
	}
}

func buildGoalFields() []formField {
	return []formField{
		{Label: "Name"},
		{Label: "Icon"},
		{Label: "Target hours", Value: "10000"},
		{Label: "Daily target", Value: "6"},
		{Label: "Description"},
	}
}

func parseRecordFields(fields []formField) (progress.AddRecordInput, error) {
	hours, err := parseIntField(fields[recordFieldHours].Value)
	if err != nil {
		return progress.AddRecordInput{}, fmt.Errorf("invalid hours")
	}
	minutes, err := parseIntField(fields[recordFieldMinutes].Value)
	if err != nil {
		return progress.AddRecordInput{}, fmt.Errorf("invalid minutes")
	}

	var date time.Time
	if value := strings.TrimSpace(fields[recordFieldDate].Value); value != "" {
		parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			return progress.AddRecordInput{}, fmt.Errorf("invalid date")
		}
		date = parsed
	}

	return progress.AddRecordInput{
		Date:     date,
		Hours:    hours,
		Minutes:  minutes,
		TimeSlot: model.TimeSlot(strings.TrimSpace(fields[recordFieldSlot].Value)),
		Note:     strings.TrimSpace(fields[recordFieldNote].Value),
	}, nil
}

func parseGoalFields(fields []formField) (progress.CreateGoalInput, error) {
	target, err := parseIntField(fields[goalFieldTarget].Value)
	if err != nil {
		return progress.CreateGoalInput{}, fmt.Errorf("invalid target hours")
	}

	daily := 0.0
	if value := strings.TrimSpace(fields[goalFieldDaily].Value); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return progress.CreateGoalInput{}, fmt.Errorf("invalid daily target")
		}
		daily = parsed
	}

	return progress.CreateGoalInput{
		Name:            strings.TrimSpace(fields[goalFieldName].Value),
		Icon:            strings.TrimSpace(fields[goalFieldIcon].Value),
		TargetHours:     target,
		DailyPureTarget: daily,
		Description:     strings.TrimSpace(fields[goalFieldDescription].Value),
	}, nil
}

func parseIntField(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}

func (u *UI) openRecordForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.hasGoal {
		return nil
	}
	u.form = &formState{kind: formRecord, fields: buildRecordFields()}
	return nil
}

func (u *UI) openNewGoalForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.openGoalForm()
	return nil
}

func (u *UI) openGoalForm() {
	u.form = &formState{kind: formGoal, fields: buildGoalFields()}
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := len(u.form.fields) + 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	if u.form.kind == formGoal {
		view.Title = "New Goal"
	} else {
		view.Title = "Log Time"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	switch u.form.kind {
	case formGoal:
		input, err := parseGoalFields(u.form.fields)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		if _, err := u.engine.CreateGoal(context.Background(), input); err != nil {
			u.status = err.Error()
			return nil
		}
	default:
		input, err := parseRecordFields(u.form.fields)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		if _, err := u.engine.AddRecord(context.Background(), input); err != nil {
			u.status = err.Error()
			return nil
		}
	}

	u.form = nil
	u.status = ""
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return u.load()
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	label := u.form.fields[u.form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(u.form.fields[u.form.index].Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if isSlotField(field.Label) {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleSlot(field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleSlot(field.Value, -1)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func isSlotField(label string) bool {
	return strings.HasPrefix(label, "Slot")
}

func cycleSlot(current string, delta int) string {
	value := strings.TrimSpace(strings.ToLower(current))
	index := 0
	for i, slot := range slotOrder {
		if slot == value {
			index = i
			break
		}
	}
	index = (index + delta + len(slotOrder)) % len(slotOrder)
	return slotOrder[index]
}
