package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/pure8plus/pure8/internal/model"
	"github.com/pure8plus/pure8/internal/progress"
	"github.com/pure8plus/pure8/internal/quote"
	"github.com/pure8plus/pure8/internal/timer"
)

const (
	viewHeader  = "header"
	viewFooter  = "footer"
	viewGrid    = "grid"
	viewRecords = "records"
	viewQuote   = "quote"
	viewForm    = "form"
	viewHelp    = "help"
	viewConfirm = "confirm"
)

type UI struct {
	engine *progress.Service
	quotes *quote.Service
	clock  *timer.Timer
	gui    *gocui.Gui

	hasGoal    bool
	goal       model.Goal
	cfg        model.UserConfig
	records    []model.TimeRecord
	todayTotal float64
	dailyQuote model.Quote

	page           int
	selectedRecord int
	focus          string

	form         *formState
	formEditor   *formEditor
	helpActive   bool
	confirmReset bool
	status       string
}

type formState struct {
	kind   formKind
	fields []formField
	index  int
}

type formKind int

const (
	formRecord formKind = iota
	formGoal
)

type formEditor struct {
	ui *UI
}

func Run(engine *progress.Service, quotes *quote.Service) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		engine: engine,
		quotes: quotes,
		clock:  timer.New(),
		gui:    gui,
		focus:  viewGrid,
	}
	ui.formEditor = &formEditor{ui: ui}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.load(); err != nil {
		return err
	}
	if !ui.hasGoal {
		ui.openGoalForm()
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.openRecordForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'n', gocui.ModNone, u.openNewGoalForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteSelectedRecord); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'h', gocui.ModNone, u.prevPage); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyArrowLeft, gocui.ModNone, u.prevPage); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'l', gocui.ModNone, u.nextPage); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyArrowRight, gocui.ModNone, u.nextPage); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 't', gocui.ModNone, u.toggleTimer); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 's', gocui.ModNone, u.stopTimer); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'f', gocui.ModNone, u.toggleQuoteFavorite); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'e', gocui.ModNone, u.exportBackup); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.promptReset); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, 'y', gocui.ModNone, u.confirmResetYes); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, 'n', gocui.ModNone, u.cancelReset); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEsc, gocui.ModNone, u.cancelReset); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	return nil
}

func (u *UI) load() error {
	ctx := context.Background()

	goal, err := u.engine.ActiveGoal(ctx)
	switch {
	case errors.Is(err, model.ErrNotFound):
		u.hasGoal = false
		u.goal = model.Goal{}
		u.records = nil
		u.todayTotal = 0
	case err != nil:
		return err
	default:
		u.hasGoal = true
		u.goal = goal

		records, err := u.engine.RecordsForGoal(ctx, goal.ID)
		if err != nil {
			return err
		}
		u.records = records

		total, err := u.engine.TodayTotal(ctx, goal.ID)
		if err != nil {
			return err
		}
		u.todayTotal = total
		u.page = progress.CurrentPage(goal)
	}

	cfg, err := u.engine.UserConfig(ctx)
	if err != nil {
		return err
	}
	u.cfg = cfg

	if picked, err := u.quotes.Daily(ctx, time.Now()); err == nil {
		u.dailyQuote = picked
	}

	if u.selectedRecord >= len(u.records) {
		u.selectedRecord = max(len(u.records)-1, 0)
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	u.renderHeader(headerView)

	footerY1 := maxY - 1
	footerY0 := max(footerY1-2, 2)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	quoteY1 := footerY0 - 1
	quoteY0 := max(quoteY1-2, 2)
	quoteView, err := gui.SetView(viewQuote, 0, quoteY0, maxX-1, quoteY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		quoteView.Title = "Quote of the Day"
	}
	quoteView.Frame = true
	quoteView.Wrap = true
	u.renderQuote(quoteView)

	bodyTop := 2
	bodyBottom := quoteY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}

	gridWidth := computeGridWidth(maxX)
	gridView, err := gui.SetView(viewGrid, 0, bodyTop, gridWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	applyViewStyle(gridView, u.focus == viewGrid)
	u.renderGrid(gridView)

	recordsView, err := gui.SetView(viewRecords, gridWidth, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		recordsView.Title = "Records"
	}
	applyViewStyle(recordsView, u.focus == viewRecords)
	u.renderRecords(recordsView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.confirmReset {
		if err := u.showConfirm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewConfirm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.form != nil

	return nil
}

func computeGridWidth(width int) int {
	// 10 cells of "■ " plus frame and padding.
	gridWidth := 26
	if gridWidth > width/2 {
		gridWidth = max(width/2, 14)
	}
	return gridWidth
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	if !u.hasGoal {
		fmt.Fprint(view, "Pure8 | no active goal yet (n to create one)")
		return
	}

	info := progress.Info(u.goal)
	name := u.goal.Name
	if u.goal.Icon != "" {
		name = u.goal.Icon + " " + name
	}

	milestone := fmt.Sprintf("milestone %d", info.CurrentMilestone)
	if info.NextMilestone != 0 {
		milestone = fmt.Sprintf("milestone %d>%d (%.0f%%)", info.CurrentMilestone, info.NextMilestone, info.MilestoneProgress)
	}

	line := fmt.Sprintf("%s | %.1f/%dh (%.1f%%) | %s | today %.1fh | streak %d (best %d)",
		name, info.CurrentHours, info.TargetHours, info.Percentage,
		milestone, u.todayTotal, u.cfg.ConstitutionStreak, u.cfg.ConstitutionBest)

	if u.clock.Running() {
		line += fmt.Sprintf(" | timer %s", formatElapsed(u.clock.Elapsed()))
	} else if u.clock.Paused() {
		line += fmt.Sprintf(" | timer paused %s", formatElapsed(u.clock.Elapsed()))
	}
	fmt.Fprint(view, line)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "a add | d delete | t timer | s stop timer | h/l page | j/k select | e export | n new goal | x reset | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderQuote(view *gocui.View) {
	view.Clear()
	if u.dailyQuote.Content == "" {
		return
	}
	mark := ""
	if u.dailyQuote.IsFavorite {
		mark = "★ "
	}
	fmt.Fprintf(view, "%s%s — %s", mark, u.dailyQuote.Content, u.dailyQuote.Author)
}

func (u *UI) renderGrid(view *gocui.View) {
	view.Clear()
	if !u.hasGoal {
		fmt.Fprint(view, "No goal")
		return
	}

	page := progress.GridData(u.goal, u.page)
	view.Title = fmt.Sprintf("Hours %d-%d (%d/100)", page.StartHour, page.EndHour, page.FilledCount)

	var line strings.Builder
	for i, cell := range page.Cells {
		if cell.Filled {
			line.WriteString("■ ")
		} else {
			line.WriteString("· ")
		}
		if (i+1)%10 == 0 {
			fmt.Fprintln(view, line.String())
			line.Reset()
		}
	}
	fmt.Fprintf(view, "\npage %d/%d", u.page+1, progress.TotalPages(u.goal.TargetHours))
}

func (u *UI) renderRecords(view *gocui.View) {
	view.Clear()
	if len(u.records) == 0 {
		fmt.Fprint(view, "No records yet — press a to log time")
		return
	}

	for i, record := range u.records {
		prefix := " "
		if i == u.selectedRecord {
			if u.focus == viewRecords {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatRecordSummary(record))
	}
	if u.focus == viewRecords {
		view.SetCursor(0, min(u.selectedRecord, len(u.records)-1))
	}
}

func formatRecordSummary(record model.TimeRecord) string {
	duration := fmt.Sprintf("%dh%02dm", record.Hours, record.Minutes)
	parts := []string{record.Date.Format("2006-01-02"), duration}
	if record.TimeSlot != "" {
		parts = append(parts, string(record.TimeSlot))
	}
	if record.Type == model.RecordTimer {
		parts = append(parts, "(timer)")
	}
	if record.ConstitutionKept {
		parts = append(parts, "✓")
	}
	if record.Note != "" {
		parts = append(parts, record.Note)
	}
	return strings.Join(parts, " | ")
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.focus = viewRecords
	if u.selectedRecord < len(u.records)-1 {
		u.selectedRecord++
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.focus = viewRecords
	if u.selectedRecord > 0 {
		u.selectedRecord--
	}
	return nil
}

func (u *UI) prevPage(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.focus = viewGrid
	if u.page > 0 {
		u.page--
	}
	return nil
}

func (u *UI) nextPage(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.hasGoal {
		return nil
	}
	u.focus = viewGrid
	if u.page < progress.TotalPages(u.goal.TargetHours)-1 {
		u.page++
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	return u.load()
}

func (u *UI) deleteSelectedRecord(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selectedRecord < 0 || u.selectedRecord >= len(u.records) {
		return nil
	}
	record := u.records[u.selectedRecord]
	if err := u.engine.DeleteRecord(context.Background(), record.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = fmt.Sprintf("deleted %s record from %s", formatHours(record.HourValue()), record.Date.Format("2006-01-02"))
	return u.load()
}

func (u *UI) toggleTimer(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch {
	case u.clock.Running():
		_ = u.clock.Pause()
		u.status = "timer paused"
	case u.clock.Paused():
		_ = u.clock.Resume()
		u.status = "timer resumed"
	default:
		_ = u.clock.Start()
		u.status = "timer started"
	}
	return nil
}

func (u *UI) stopTimer(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	minutes, err := u.clock.Stop()
	if err != nil {
		return nil
	}
	if minutes == 0 {
		u.status = "timer stopped, under a minute, nothing logged"
		return nil
	}

	_, err = u.engine.AddRecord(context.Background(), progress.AddRecordInput{
		Hours:   minutes / 60,
		Minutes: minutes % 60,
		Type:    model.RecordTimer,
	})
	if err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = fmt.Sprintf("timer logged %dh%02dm", minutes/60, minutes%60)
	return u.load()
}

func (u *UI) exportBackup(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.hasGoal {
		return nil
	}

	name := fmt.Sprintf("pure8-export-%s.json", time.Now().Format("20060102-150405"))
	file, err := os.Create(name)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	defer file.Close()

	if err := u.engine.WriteExport(context.Background(), file, u.goal.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = "exported " + name
	return nil
}

func (u *UI) toggleQuoteFavorite(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.dailyQuote.ID == "" {
		return nil
	}

	if err := u.quotes.ToggleFavorite(context.Background(), u.dailyQuote.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.dailyQuote.IsFavorite = !u.dailyQuote.IsFavorite
	if u.dailyQuote.IsFavorite {
		u.status = "quote marked as favorite"
	} else {
		u.status = "quote unmarked"
	}
	return nil
}

func (u *UI) promptReset(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.confirmReset = true
	return nil
}

func (u *UI) confirmResetYes(gui *gocui.Gui, _ *gocui.View) error {
	if !u.confirmReset {
		return nil
	}
	u.confirmReset = false
	if gui != nil {
		_ = gui.DeleteView(viewConfirm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	if err := u.engine.ResetAll(context.Background()); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = "all data wiped"
	if err := u.load(); err != nil {
		return err
	}
	if !u.hasGoal {
		u.openGoalForm()
	}
	return nil
}

func (u *UI) cancelReset(gui *gocui.Gui, _ *gocui.View) error {
	u.confirmReset = false
	if gui != nil {
		_ = gui.DeleteView(viewConfirm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) showConfirm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(46, maxX/3)
	height := 4
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewConfirm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Reset"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, "Wipe the goal, all records and streak history?\nThis cannot be undone. (y/n)")
	_, _ = gui.SetCurrentView(viewConfirm)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(56, maxX/2)
	height := 14
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive || u.confirmReset
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Grid:",
		"  h/l or arrows switch 100-hour page",
		"  each cell is one full hour toward the goal",
		"",
		"Records:",
		"  a log time | d delete selected | j/k move selection",
		"",
		"Timer:",
		"  t start/pause/resume | s stop and log whole minutes",
		"  paused stretches are not counted",
		"",
		"Other:",
		"  n new goal | f favorite quote | e export backup",
		"  x reset all data | r reload | ? help | q quit",
	}, "\n")
}

func formatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = false
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
