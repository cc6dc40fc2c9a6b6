// Package app wires the day store, progression state, recurring generation,
// undo, and persistence into the operations the UI calls. All methods are
// synchronous; timer callbacks arrive through HandleTimer.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"xpdash/internal/leveling"
	"xpdash/internal/model"
	"xpdash/internal/notify"
	"xpdash/internal/recurring"
	"xpdash/internal/scheduler"
	"xpdash/internal/storage"
	"xpdash/internal/store"
	"xpdash/internal/undo"
)

var (
	ErrNothingToUndo      = errors.New("app: nothing to undo")
	ErrProtectedCategory  = errors.New("app: category cannot be deleted")
	ErrUnknownCategory    = errors.New("app: unknown category")
	ErrRecurringNotFound  = errors.New("app: recurring definition not found")
	ErrNegativeGoalTarget = errors.New("app: goal target must not be negative")
)

const autosaveTimerID = "autosave"

// Options configures an App. Store and Engine are required; the rest default
// sensibly.
type Options struct {
	Store            storage.Store
	Engine           *scheduler.Engine
	Notifier         notify.Notifier
	Logger           *slog.Logger
	Clock            func() time.Time
	UndoWindow       time.Duration
	AutosaveInterval time.Duration
}

// App owns all mutable application state. It is not safe for concurrent use;
// the UI event loop serializes access.
type App struct {
	store    storage.Store
	engine   *scheduler.Engine
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time

	undoWindow       time.Duration
	autosaveInterval time.Duration

	date string // selected day
	day  *store.DayStore
	days map[string]map[string]model.Task // all other days, keyed by date

	progress leveling.Progress
	totalXP  int

	categories model.Categories
	goals      model.Goals
	goalMet    bool // announced for today already

	defs []model.RecurringTask

	undoMgr     undo.Manager
	pendingDate string // day the staged deletion belongs to

	reminders map[string]string // task id -> timer id
}

func New(opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("app: scheduler engine is required")
	}
	a := &App{
		store:            opts.Store,
		engine:           opts.Engine,
		notifier:         opts.Notifier,
		log:              opts.Logger,
		now:              opts.Clock,
		undoWindow:       opts.UndoWindow,
		autosaveInterval: opts.AutosaveInterval,
		days:             make(map[string]map[string]model.Task),
		reminders:        make(map[string]string),
	}
	if a.notifier == nil {
		a.notifier = notify.Noop{}
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.undoWindow <= 0 {
		a.undoWindow = 5 * time.Second
	}
	if a.autosaveInterval <= 0 {
		a.autosaveInterval = 5 * time.Minute
	}
	return a, nil
}

func (a *App) today() string { return model.DateOf(a.now()) }

// Start loads persisted state, opens today's day, materializes recurring
// instances, and arms reminders plus the autosave timer.
func (a *App) Start() error {
	tasks, err := a.store.LoadTasks()
	if err != nil {
		return fmt.Errorf("app: load tasks: %w", err)
	}
	a.days = tasks.Days
	if a.days == nil {
		a.days = make(map[string]map[string]model.Task)
	}
	a.totalXP = tasks.TotalXP
	if a.totalXP < 0 {
		a.totalXP = 0
	}
	// Within-level XP is derived from the lifetime total; the clamp keeps the
	// progression invariant even when XP was lost across a level floor.
	xp := a.totalXP - leveling.CumulativeXP(tasks.Level)
	if xp < 0 {
		xp = 0
	}
	if need := leveling.XPNeededForLevel(tasks.Level); xp >= need {
		xp = need - 1
	}
	a.progress = leveling.Progress{Level: tasks.Level, XP: xp}
	if !a.progress.Valid() {
		a.log.Warn("resetting invalid progression state", "level", tasks.Level)
		a.progress = leveling.NewProgress()
	}

	if a.categories, err = a.store.LoadCategories(); err != nil {
		return fmt.Errorf("app: load categories: %w", err)
	}
	if a.categories == nil {
		a.categories = model.DefaultCategories()
	}
	if _, ok := a.categories[model.CategoryMiscellaneous]; !ok {
		a.categories[model.CategoryMiscellaneous] = nil
	}

	today := a.today()
	if a.goals, err = a.store.LoadGoals(today); err != nil {
		return fmt.Errorf("app: load goals: %w", err)
	}
	if a.goals.LastDailyReset != today {
		a.goals.LastDailyReset = today
		a.goalMet = false
	}

	if a.defs, err = a.store.LoadRecurring(); err != nil {
		return fmt.Errorf("app: load recurring: %w", err)
	}

	if err := a.openDay(today); err != nil {
		return err
	}
	a.goalMet = a.goalReached()

	if tasks.Migrated {
		a.log.Info("migrated legacy task layout, saving back")
		if err := a.Save(); err != nil {
			return err
		}
	}

	a.scheduleAutosave()
	return nil
}

// openDay installs the day store for date, runs recurring generation, and
// re-arms reminders when the day is today. The previous day must already be
// flushed.
func (a *App) openDay(date string) error {
	day := store.New(date)
	for _, task := range a.days[date] {
		if err := day.Insert(task); err != nil {
			return fmt.Errorf("app: load day %s: %w", date, err)
		}
	}
	delete(a.days, date)

	created, changed, err := recurring.Generate(a.defs, day)
	if err != nil {
		// A malformed date should never reach here; log and continue with
		// whatever loaded.
		a.log.Warn("recurring generation failed", "date", date, "error", err)
	}

	a.date = date
	a.day = day

	a.clearReminders()
	if date == a.today() {
		for _, task := range day.Tasks() {
			a.armReminder(task)
		}
	}

	if changed {
		a.log.Info("generated recurring instances", "date", date, "count", len(created))
		if err := a.Save(); err != nil {
			return err
		}
	}
	return nil
}

// flushDay copies the selected day back into the days map. Empty days are
// dropped so the tasks file does not accumulate dead dates.
func (a *App) flushDay() {
	if a.day == nil {
		return
	}
	tasks := a.day.Tasks()
	if len(tasks) == 0 {
		delete(a.days, a.date)
		return
	}
	a.days[a.date] = tasks
}

// SelectDate switches the visible day. "" selects today.
func (a *App) SelectDate(date string) error {
	if date == "" {
		date = a.today()
	}
	if _, err := model.ParseDate(date); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if date == a.date {
		return nil
	}
	a.flushDay()
	return a.openDay(date)
}

func (a *App) Date() string                 { return a.date }
func (a *App) Progress() leveling.Progress  { return a.progress }
func (a *App) TotalXP() int                 { return a.totalXP }
func (a *App) Goals() model.Goals           { return a.goals }
func (a *App) Categories() model.Categories { return a.categories }

func (a *App) Tasks(q store.Query) []model.Task { return a.day.List(q) }

// DoneXP is the XP earned on the selected day.
func (a *App) DoneXP() int { return a.day.DoneXP() }

// ResolveXP maps an explicit XP value or a category name to the XP a new task
// is worth. Explicit XP always wins; a category without a default yields zero.
func (a *App) ResolveXP(xp int, hasXP bool, category string) (int, error) {
	if hasXP {
		return xp, nil
	}
	if category == "" {
		return 0, nil
	}
	def, ok := a.categories[category]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if def == nil {
		return 0, nil
	}
	return *def, nil
}

func (a *App) AddTask(description string, xp int, due *model.DueTime) (model.Task, error) {
	task, err := a.day.Add(description, xp, due)
	if err != nil {
		return model.Task{}, err
	}
	if a.date == a.today() {
		a.armReminder(task)
	}
	return task, a.Save()
}

// EditTask replaces description, XP, and due time. When the task is done, the
// XP difference flows through progression immediately.
func (a *App) EditTask(id, description string, xp int, due *model.DueTime) (ToggleResult, error) {
	before, ok := a.day.Get(id)
	if !ok {
		return ToggleResult{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	task, err := a.day.Edit(id, description, xp, due)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Task: task}
	if before.Done && before.XP != task.XP {
		res.Delta = task.XP - before.XP
		// Compensation runs as remove-then-add, so level boundaries are
		// re-crossed the same way an untoggle plus a fresh completion would
		// cross them.
		a.applyDelta(-before.XP)
		res.LevelUps = a.applyDelta(task.XP)
		res.GoalMet = a.checkGoal()
	}

	a.disarmReminder(id)
	if a.date == a.today() {
		a.armReminder(task)
	}
	return res, a.Save()
}

// ToggleResult reports everything a completion flip changed.
type ToggleResult struct {
	Task     model.Task
	Delta    int
	LevelUps []leveling.LevelUp
	GoalMet  bool
}

func (a *App) ToggleTask(id string) (ToggleResult, error) {
	task, delta, err := a.day.Toggle(id)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{
		Task:     task,
		Delta:    delta,
		LevelUps: a.applyDelta(delta),
	}
	if task.Done {
		a.disarmReminder(id)
	} else if a.date == a.today() {
		a.armReminder(task)
	}
	res.GoalMet = a.checkGoal()
	return res, a.Save()
}

// applyDelta routes a signed XP change through progression and the lifetime
// total, notifying on level-ups.
func (a *App) applyDelta(delta int) []leveling.LevelUp {
	var ups []leveling.LevelUp
	switch {
	case delta > 0:
		ups = a.progress.AddXP(delta)
		a.totalXP += delta
	case delta < 0:
		a.progress.RemoveXP(-delta)
		a.totalXP += delta
		if a.totalXP < 0 {
			a.totalXP = 0
		}
	}
	for _, up := range ups {
		a.log.Info("level up", "level", up.Level)
		a.notifier.Send(notify.Notification{
			Title: "Level up!",
			Body:  fmt.Sprintf("You reached level %d", up.Level),
		})
	}
	return ups
}

func (a *App) goalReached() bool {
	return a.goals.DailyGoal > 0 && a.date == a.today() && a.day.DoneXP() >= a.goals.DailyGoal
}

// checkGoal reports a goal-met transition at most once per day; dropping back
// below the target re-arms the announcement.
func (a *App) checkGoal() bool {
	reached := a.goalReached()
	if !reached {
		// Viewing another day never un-announces today's goal; only dropping
		// below the target on today's tasks re-arms it.
		if a.date == a.today() {
			a.goalMet = false
		}
		return false
	}
	if a.goalMet {
		return false
	}
	a.goalMet = true
	a.notifier.Send(notify.Notification{
		Title: "Daily goal reached",
		Body:  fmt.Sprintf("You earned %d XP today", a.day.DoneXP()),
	})
	return true
}

// DeleteTask detaches the task and stages it for undo. The deletion becomes
// permanent when the undo window lapses or another deletion replaces it.
func (a *App) DeleteTask(id string) (model.Task, error) {
	task, err := a.day.Remove(id)
	if err != nil {
		return model.Task{}, err
	}
	if task.Done {
		a.applyDelta(-task.XP)
		a.checkGoal()
	}
	a.disarmReminder(id)

	timerID := "undo:" + uuid.NewString()
	deadline := a.now().Add(a.undoWindow)
	if evicted, had := a.undoMgr.Stage(task, deadline, timerID); had {
		// Only one slot: the previous pending deletion is now permanent.
		a.engine.Cancel(evicted.TimerID)
		a.log.Info("finalized evicted deletion", "task", evicted.Task.ID)
	}
	a.pendingDate = a.date

	if err := a.engine.Schedule(scheduler.Event{
		ID:        timerID,
		Kind:      scheduler.KindUndoExpiry,
		TaskID:    task.ID,
		TriggerAt: deadline,
	}); err != nil {
		a.log.Warn("could not arm undo timer", "error", err)
	}
	return task, a.Save()
}

// Undo restores the staged deletion. Restoring re-applies XP for done tasks
// and re-arms the reminder when the task lives on today with a future due
// time.
func (a *App) Undo() (model.Task, error) {
	pending, ok := a.undoMgr.Take()
	if !ok {
		return model.Task{}, ErrNothingToUndo
	}
	a.engine.Cancel(pending.TimerID)

	task := pending.Task
	if a.pendingDate == a.date {
		if err := a.day.Restore(task); err != nil {
			return model.Task{}, err
		}
	} else {
		if a.days[a.pendingDate] == nil {
			a.days[a.pendingDate] = make(map[string]model.Task)
		}
		a.days[a.pendingDate][task.ID] = task
	}

	if task.Done {
		a.applyDelta(task.XP)
		a.checkGoal()
	}
	if a.pendingDate == a.today() && a.pendingDate == a.date && !task.Done {
		a.armReminder(task)
	}
	return task, a.Save()
}

// PendingUndo exposes the staged deletion for the status bar.
func (a *App) PendingUndo() (undo.Pending, bool) { return a.undoMgr.Pending() }

func (a *App) SetDailyGoal(target int) error {
	if target < 0 {
		return ErrNegativeGoalTarget
	}
	a.goals.DailyGoal = target
	a.goalMet = false
	a.checkGoal()
	return a.Save()
}

// History returns earned XP per date, most useful for the history screen.
// The selected day reflects live state.
func (a *App) History() map[string]int {
	out := make(map[string]int, len(a.days)+1)
	for date, tasks := range a.days {
		total := 0
		for _, t := range tasks {
			if t.Done {
				total += t.XP
			}
		}
		if total > 0 {
			out[date] = total
		}
	}
	if xp := a.day.DoneXP(); xp > 0 {
		out[a.date] = xp
	}
	return out
}

func (a *App) Recurring() []model.RecurringTask {
	out := make([]model.RecurringTask, len(a.defs))
	copy(out, a.defs)
	return out
}

func (a *App) AddRecurring(description string, xp int, rec model.RecurrenceType, weekdays []string, due *model.DueTime) (model.RecurringTask, error) {
	def := model.RecurringTask{
		ID:          uuid.NewString(),
		Description: description,
		XP:          xp,
		Recurrence:  rec,
		Weekdays:    weekdays,
		DueTime:     due,
	}
	if err := def.Validate(); err != nil {
		return model.RecurringTask{}, err
	}
	a.defs = append(a.defs, def)

	// New definitions may be due immediately on the open day.
	if created, changed, err := recurring.Generate(a.defs, a.day); err != nil {
		a.log.Warn("recurring generation failed", "error", err)
	} else if changed {
		if a.date == a.today() {
			for _, task := range created {
				a.armReminder(task)
			}
		}
		a.log.Info("generated instance for new definition", "id", def.ID)
	}
	return def, a.Save()
}

// EditRecurring rewrites a definition in place, preserving its id and
// LastGenerated so edits never cause a second instance the same day.
func (a *App) EditRecurring(id, description string, xp int, rec model.RecurrenceType, weekdays []string, due *model.DueTime) (model.RecurringTask, error) {
	for i := range a.defs {
		if a.defs[i].ID != id {
			continue
		}
		updated := model.RecurringTask{
			ID:            id,
			Description:   description,
			XP:            xp,
			Recurrence:    rec,
			Weekdays:      weekdays,
			DueTime:       due,
			LastGenerated: a.defs[i].LastGenerated,
		}
		if err := updated.Validate(); err != nil {
			return model.RecurringTask{}, err
		}
		a.defs[i] = updated
		return updated, a.Save()
	}
	return model.RecurringTask{}, fmt.Errorf("%w: %s", ErrRecurringNotFound, id)
}

func (a *App) DeleteRecurring(id string) error {
	for i := range a.defs {
		if a.defs[i].ID == id {
			a.defs = append(a.defs[:i], a.defs[i+1:]...)
			return a.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrRecurringNotFound, id)
}

// SetCategory creates or updates a category. A nil XP means the category has
// no default and tasks in it need explicit XP.
func (a *App) SetCategory(name string, xp *int) error {
	if name == "" {
		return errors.New("app: category name is required")
	}
	if xp != nil && *xp < 0 {
		return model.ErrNegativeXP
	}
	a.categories[name] = xp
	return a.Save()
}

func (a *App) DeleteCategory(name string) error {
	if name == model.CategoryMiscellaneous {
		return ErrProtectedCategory
	}
	if _, ok := a.categories[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	delete(a.categories, name)
	return a.Save()
}

// HandleTimer processes a fired scheduler event. Reminder events re-check the
// task so completing or deleting a task makes its reminder a no-op.
func (a *App) HandleTimer(ev scheduler.Event) error {
	switch ev.Kind {
	case scheduler.KindReminder:
		delete(a.reminders, ev.TaskID)
		if a.date != a.today() {
			return nil
		}
		task, ok := a.day.Get(ev.TaskID)
		if !ok || task.Done {
			return nil
		}
		body := task.Description
		if task.DueTime != nil {
			body = fmt.Sprintf("%s (due %s)", task.Description, task.DueTime)
		}
		a.notifier.Send(notify.Notification{Title: "Task due", Body: body})
		return nil

	case scheduler.KindUndoExpiry:
		if pending, ok := a.undoMgr.Expire(ev.ID); ok {
			a.log.Info("deletion finalized", "task", pending.Task.ID)
			return a.Save()
		}
		return nil

	case scheduler.KindAutosave:
		a.scheduleAutosave()
		return a.Save()

	default:
		a.log.Warn("unknown timer kind", "kind", ev.Kind)
		return nil
	}
}

func (a *App) scheduleAutosave() {
	if err := a.engine.Schedule(scheduler.Event{
		ID:        autosaveTimerID,
		Kind:      scheduler.KindAutosave,
		TriggerAt: a.now().Add(a.autosaveInterval),
	}); err != nil {
		a.log.Warn("could not arm autosave", "error", err)
	}
}

// armReminder schedules a reminder for a task with a future due time today.
// Timer ids are derived from the task id so rescheduling supersedes.
func (a *App) armReminder(task model.Task) {
	if task.DueTime == nil || task.Done {
		return
	}
	trigger := task.DueTime.On(a.now())
	if !trigger.After(a.now()) {
		return
	}
	timerID := "reminder:" + task.ID
	if err := a.engine.Schedule(scheduler.Event{
		ID:        timerID,
		Kind:      scheduler.KindReminder,
		TaskID:    task.ID,
		TriggerAt: trigger,
	}); err != nil {
		a.log.Warn("could not arm reminder", "task", task.ID, "error", err)
		return
	}
	a.reminders[task.ID] = timerID
}

func (a *App) disarmReminder(taskID string) {
	if timerID, ok := a.reminders[taskID]; ok {
		a.engine.Cancel(timerID)
		delete(a.reminders, taskID)
	}
}

func (a *App) clearReminders() {
	for taskID, timerID := range a.reminders {
		a.engine.Cancel(timerID)
		delete(a.reminders, taskID)
	}
}

// Save writes every category of state. Partial failures return the first
// error but still attempt the remaining categories.
func (a *App) Save() error {
	a.flushDay()
	file := storage.TasksFile{
		Days:    make(map[string]map[string]model.Task, len(a.days)),
		Level:   a.progress.Level,
		TotalXP: a.totalXP,
	}
	for date, tasks := range a.days {
		file.Days[date] = tasks
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(a.store.SaveTasks(file))
	keep(a.store.SaveCategories(a.categories))
	keep(a.store.SaveGoals(a.goals))
	keep(a.store.SaveRecurring(a.defs))
	if firstErr != nil {
		a.log.Error("save failed", "error", firstErr)
	}
	return firstErr
}

// Close finalizes any pending deletion and writes state one last time.
func (a *App) Close() error {
	if pending, ok := a.undoMgr.Clear(); ok {
		a.engine.Cancel(pending.TimerID)
		a.log.Info("finalizing pending deletion at shutdown", "task", pending.Task.ID)
	}
	saveErr := a.Save()
	if err := a.store.Close(); err != nil && saveErr == nil {
		saveErr = err
	}
	return saveErr
}
