package leak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/leakscan/internal/core"
)

// Status is the scanner lifecycle state.
type Status int

const (
	StatusIdle    Status = iota // Nothing computed or shown
	StatusRunning               // A search is in flight
	StatusDraw                  // A path is being shown until the view time runs out
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// User-facing messages, one per terminal state.
const (
	MessageComputing = "Computing path..."
	MessageNoLeaks   = "No leaks!"
	MessageFound     = "Found leak, path rendered."
	MessageCancelled = "Cancelled."
)

// Outcome is how a scan ended.
type Outcome string

const (
	OutcomeFound     Outcome = "found"
	OutcomeNoLeak    Outcome = "sealed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed" // Host query panicked; shown as no leak
)

// Runner runs a body off the main goroutine and calls onComplete on the main
// goroutine strictly after body has returned.
type Runner interface {
	RunAsync(body func(), onComplete func())
}

// Settings tune the scanner.
type Settings struct {
	// Pressurization gates scanning; with it off no scan starts.
	Pressurization bool

	// MinView and MaxView clamp how long a found path stays on screen.
	MinView time.Duration
	MaxView time.Duration

	// ViewSecondsPerMeter scales view time by path length in meters.
	ViewSecondsPerMeter float64
}

// DefaultSettings returns the stock view timing with pressurization on.
func DefaultSettings() Settings {
	return Settings{
		Pressurization:      true,
		MinView:             30 * time.Second,
		MaxView:             300 * time.Second,
		ViewSecondsPerMeter: 1.0,
	}
}

// ViewDuration returns how long a path of the given number of moves stays
// visible on a grid with the given cell size.
func (s Settings) ViewDuration(moves int, cellSize float64) time.Duration {
	seconds := float64(moves) * cellSize * s.ViewSecondsPerMeter
	d := time.Duration(seconds * float64(time.Second))
	if d < s.MinView {
		d = s.MinView
	}
	if d > s.MaxView {
		d = s.MaxView
	}
	return d
}

// Report describes a finished scan.
type Report struct {
	Outcome  Outcome
	Start    core.Vec3I
	Lines    []core.LineI
	Stats    SearchStats
	Elapsed  time.Duration
	ViewTime time.Duration
	Err      error
}

// Moves returns the number of moves on the reported path.
func (r Report) Moves() int {
	return len(r.Lines)
}

// Options configure a Scanner.
type Options struct {
	Settings Settings
	Logger   *log.Logger

	// OnReport, when set, is called on the main goroutine for every scan that
	// finishes, including cancelled ones.
	OnReport func(Grid, Report)
}

// scanTask is one search run. The body writes the result fields before it
// returns; the main goroutine reads them only after the completion callback
// fired or after joining on done.
type scanTask struct {
	grid   Grid
	start  core.Vec3I
	cancel context.CancelFunc
	done   chan struct{}
	began  time.Time

	exit    *Breadcrumb
	stats   SearchStats
	err     error
	elapsed time.Duration

	completed bool // Main goroutine only
}

func (t *scanTask) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.exit = nil
			t.err = fmt.Errorf("leak: search panicked: %v", r)
		}
		t.elapsed = time.Since(t.began)
	}()
	t.exit, t.stats, t.err = Search(ctx, t.grid, t.start)
}

// Scanner owns the leak scan lifecycle: IDLE → RUNNING → DRAW → IDLE.
// Every method must be called from the main goroutine.
type Scanner struct {
	runner   Runner
	settings Settings
	logger   *log.Logger
	onReport func(Grid, Report)

	status    Status
	grid      Grid
	start     core.Vec3I
	lines     []core.LineI
	message   string
	remaining time.Duration
	task      *scanTask
	last      Report
}

// NewScanner creates an idle scanner that launches searches through runner.
func NewScanner(runner Runner, opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	settings := opts.Settings
	if settings.MaxView <= 0 {
		def := DefaultSettings()
		settings.MinView, settings.MaxView = def.MinView, def.MaxView
	}
	if settings.ViewSecondsPerMeter <= 0 {
		settings.ViewSecondsPerMeter = DefaultSettings().ViewSecondsPerMeter
	}
	return &Scanner{
		runner:   runner,
		settings: settings,
		logger:   logger,
		onReport: opts.OnReport,
	}
}

// StartScan clears any previous scan and starts a new one from start.
// Returns false, doing nothing else, when pressurization is disabled or the
// start cell lies outside the grid.
func (s *Scanner) StartScan(grid Grid, start core.Vec3I) bool {
	s.ClearStatus()

	if !s.settings.Pressurization {
		s.logger.Debug("scan skipped, pressurization disabled")
		return false
	}
	if !grid.Bounds().Contains(start) {
		s.logger.Warn("scan start outside grid", "start", start, "bounds_min", grid.Bounds().Min, "bounds_max", grid.Bounds().Max)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := &scanTask{
		grid:   grid,
		start:  start,
		cancel: cancel,
		done:   make(chan struct{}),
		began:  time.Now(),
	}

	s.grid = grid
	s.start = start
	s.status = StatusRunning
	s.message = MessageComputing
	s.task = task

	s.logger.Info("scan started", "start", start)
	s.runner.RunAsync(func() {
		defer close(task.done)
		task.run(ctx)
	}, func() {
		s.complete(task)
	})
	return true
}

// complete is the completion callback; stale tasks are ignored.
func (s *Scanner) complete(task *scanTask) {
	task.cancel()
	if task != s.task {
		return
	}
	task.completed = true
}

// CancelScan cancels the running search and blocks until it has returned.
func (s *Scanner) CancelScan() {
	if s.status != StatusRunning || s.task == nil {
		return
	}
	task := s.join()

	s.status = StatusIdle
	s.grid = nil
	s.lines = nil
	s.message = MessageCancelled
	s.logger.Info("scan cancelled", "start", task.start, "expansions", task.stats.Expansions)
	s.report(task.grid, Report{
		Outcome: OutcomeCancelled,
		Start:   task.start,
		Stats:   task.stats,
		Elapsed: task.elapsed,
		Err:     task.err,
	})
}

// join cancels the current task, waits for its body and detaches it.
func (s *Scanner) join() *scanTask {
	task := s.task
	s.task = nil
	task.cancel()
	<-task.done
	return task
}

// PollResult applies a finished search. Call it every frame.
func (s *Scanner) PollResult() {
	if s.status != StatusRunning || s.task == nil || !s.task.completed {
		return
	}
	task := s.task
	s.task = nil

	r := Report{
		Start:   task.start,
		Stats:   task.stats,
		Elapsed: task.elapsed,
		Err:     task.err,
	}

	switch {
	case errors.Is(task.err, context.Canceled):
		r.Outcome = OutcomeCancelled
		s.status = StatusIdle
		s.message = MessageCancelled

	case task.err != nil:
		s.logger.Error("scan failed", "start", task.start, "err", task.err)
		r.Outcome = OutcomeFailed
		s.status = StatusIdle
		s.message = MessageNoLeaks

	case task.exit == nil:
		r.Outcome = OutcomeNoLeak
		s.status = StatusIdle
		s.message = MessageNoLeaks
		s.logger.Info("scan finished, sealed", "expansions", task.stats.Expansions, "elapsed", task.elapsed)

	default:
		s.lines = PathLines(task.exit)
		s.remaining = s.settings.ViewDuration(len(s.lines), task.grid.CellSize())
		s.status = StatusDraw
		s.message = MessageFound
		r.Outcome = OutcomeFound
		r.Lines = s.lines
		r.ViewTime = s.remaining
		s.logger.Info("scan finished, leak found",
			"moves", len(s.lines),
			"exit", task.exit.Position,
			"expansions", task.stats.Expansions,
			"elapsed", task.elapsed,
		)
	}

	if s.status == StatusIdle {
		s.lines = nil
		s.grid = nil
	}
	s.report(task.grid, r)
}

// Tick counts down the view time of a shown path. Call it every frame.
func (s *Scanner) Tick(dt time.Duration) {
	if s.status != StatusDraw {
		return
	}
	s.remaining -= dt
	if s.remaining <= 0 {
		s.ClearStatus()
	}
}

// ClearStatus drops any shown path and cancels a running search without
// reporting it.
func (s *Scanner) ClearStatus() {
	if s.task != nil {
		s.join()
	}
	s.status = StatusIdle
	s.grid = nil
	s.lines = nil
	s.message = ""
	s.remaining = 0
}

func (s *Scanner) report(grid Grid, r Report) {
	s.last = r
	if s.onReport != nil {
		s.onReport(grid, r)
	}
}

// Status returns the lifecycle state.
func (s *Scanner) Status() Status {
	return s.status
}

// Message returns the user-facing message for the current state.
func (s *Scanner) Message() string {
	return s.message
}

// Lines returns the shown path, ordered from the exit back to the start.
// Empty unless the status is StatusDraw.
func (s *Scanner) Lines() []core.LineI {
	return s.lines
}

// Grid returns the grid being scanned or shown, nil when idle.
func (s *Scanner) Grid() Grid {
	return s.grid
}

// Start returns the start cell of the current or last scan.
func (s *Scanner) Start() core.Vec3I {
	return s.start
}

// Remaining returns how long a shown path stays visible.
func (s *Scanner) Remaining() time.Duration {
	return s.remaining
}

// LastReport returns the report of the most recently finished scan.
func (s *Scanner) LastReport() Report {
	return s.last
}

// Settings returns the active settings.
func (s *Scanner) Settings() Settings {
	return s.settings
}
