package leak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/host"
)

type reportLog struct {
	reports []Report
}

func (l *reportLog) add(_ Grid, r Report) {
	l.reports = append(l.reports, r)
}

func newTestScanner(settings Settings) (*Scanner, *host.Parallel, *reportLog) {
	runner := host.NewParallel()
	log := &reportLog{}
	s := NewScanner(runner, Options{Settings: settings, OnReport: log.add})
	return s, runner, log
}

// settle waits for every search body and applies its completion.
func settle(s *Scanner, runner *host.Parallel) {
	runner.Wait()
	runner.Drain()
	s.PollResult()
}

func breachedGrid() *testGrid {
	g := newTestGrid(core.V(0, 0, 0), core.V(6, 4, 4)).shell()
	delete(g.solid, core.V(6, 2, 2))
	return g
}

func TestScannerFindsLeak(t *testing.T) {
	s, runner, log := newTestScanner(DefaultSettings())
	g := breachedGrid()

	require.True(t, s.StartScan(g, core.V(1, 2, 2)))
	assert.Equal(t, StatusRunning, s.Status())
	assert.Equal(t, MessageComputing, s.Message())
	assert.Empty(t, s.Lines())

	settle(s, runner)

	assert.Equal(t, StatusDraw, s.Status())
	assert.Equal(t, MessageFound, s.Message())
	require.NotEmpty(t, s.Lines())
	assert.Equal(t, core.V(1, 2, 2), s.Lines()[len(s.Lines())-1].End)
	assert.Equal(t, 30*time.Second, s.Remaining(), "short paths are shown for the minimum time")
	assert.Same(t, g, s.Grid())

	require.Len(t, log.reports, 1)
	assert.Equal(t, OutcomeFound, log.reports[0].Outcome)
	assert.Equal(t, len(s.Lines()), log.reports[0].Moves())
}

func TestScannerSealed(t *testing.T) {
	s, runner, log := newTestScanner(DefaultSettings())
	g := newTestGrid(core.V(0, 0, 0), core.V(4, 4, 4)).shell()

	require.True(t, s.StartScan(g, core.V(2, 2, 2)))
	settle(s, runner)

	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, MessageNoLeaks, s.Message())
	assert.Empty(t, s.Lines())
	assert.Nil(t, s.Grid())
	require.Len(t, log.reports, 1)
	assert.Equal(t, OutcomeNoLeak, log.reports[0].Outcome)
	assert.Equal(t, 27*6, log.reports[0].Stats.Expansions)
}

func TestScannerDrawExpires(t *testing.T) {
	s, runner, _ := newTestScanner(DefaultSettings())
	require.True(t, s.StartScan(breachedGrid(), core.V(1, 2, 2)))
	settle(s, runner)
	require.Equal(t, StatusDraw, s.Status())

	s.Tick(29 * time.Second)
	assert.Equal(t, StatusDraw, s.Status())
	assert.Equal(t, time.Second, s.Remaining())

	s.Tick(time.Second)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Lines())
	assert.Nil(t, s.Grid())
}

func TestScannerPressurizationDisabled(t *testing.T) {
	settings := DefaultSettings()
	settings.Pressurization = false
	s, _, log := newTestScanner(settings)

	assert.False(t, s.StartScan(breachedGrid(), core.V(1, 2, 2)))
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, log.reports)
}

func TestScannerStartOutsideGrid(t *testing.T) {
	s, _, _ := newTestScanner(DefaultSettings())
	assert.False(t, s.StartScan(breachedGrid(), core.V(20, 0, 0)))
	assert.Equal(t, StatusIdle, s.Status())
}

func TestScannerCancel(t *testing.T) {
	s, runner, log := newTestScanner(DefaultSettings())
	g := newTestGrid(core.V(0, 0, 0), core.V(13, 13, 13)).shell()
	g.delay = 200 * time.Microsecond

	require.True(t, s.StartScan(g, core.V(6, 6, 6)))
	<-g.started

	s.CancelScan()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, MessageCancelled, s.Message())
	assert.Empty(t, s.Lines())

	// The body has been joined; its completion callback is stale.
	runner.Wait()
	runner.Drain()
	s.PollResult()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, MessageCancelled, s.Message())

	require.Len(t, log.reports, 1)
	assert.Equal(t, OutcomeCancelled, log.reports[0].Outcome)
	assert.Less(t, log.reports[0].Stats.Expansions, 12*12*12*6)
}

func TestScannerCancelWhenIdle(t *testing.T) {
	s, _, log := newTestScanner(DefaultSettings())
	s.CancelScan()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Message())
	assert.Empty(t, log.reports)
}

func TestScannerRestartIgnoresStaleCompletion(t *testing.T) {
	s, runner, log := newTestScanner(DefaultSettings())
	slow := newTestGrid(core.V(0, 0, 0), core.V(13, 13, 13)).shell()
	slow.delay = 200 * time.Microsecond

	require.True(t, s.StartScan(slow, core.V(6, 6, 6)))
	<-slow.started

	fast := breachedGrid()
	require.True(t, s.StartScan(fast, core.V(1, 2, 2)))
	settle(s, runner)

	assert.Equal(t, StatusDraw, s.Status())
	assert.Same(t, fast, s.Grid())
	require.Len(t, log.reports, 1, "the superseded scan is not reported")
	assert.Equal(t, OutcomeFound, log.reports[0].Outcome)
}

func TestScannerPanicReportsNoLeaks(t *testing.T) {
	s, runner, log := newTestScanner(DefaultSettings())
	g := breachedGrid()
	g.panics = true

	require.True(t, s.StartScan(g, core.V(1, 2, 2)))
	settle(s, runner)

	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, MessageNoLeaks, s.Message())
	require.Len(t, log.reports, 1)
	assert.Equal(t, OutcomeFailed, log.reports[0].Outcome)
	assert.Error(t, log.reports[0].Err)
}

func TestScannerClearStatus(t *testing.T) {
	s, runner, log := newTestScanner(DefaultSettings())
	require.True(t, s.StartScan(breachedGrid(), core.V(1, 2, 2)))
	settle(s, runner)
	require.Equal(t, StatusDraw, s.Status())

	s.ClearStatus()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Lines())
	assert.Empty(t, s.Message())
	assert.Len(t, log.reports, 1)
}

func TestViewDurationClamp(t *testing.T) {
	settings := DefaultSettings()
	tests := []struct {
		name  string
		moves int
		size  float64
		want  time.Duration
	}{
		{"short path clamps to min", 4, 2.5, 30 * time.Second},
		{"scales with meters", 40, 2.5, 100 * time.Second},
		{"small grid", 100, 0.5, 50 * time.Second},
		{"long path clamps to max", 1000, 2.5, 300 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settings.ViewDuration(tt.moves, tt.size))
		})
	}
}

func TestNewScannerFillsTimings(t *testing.T) {
	s := NewScanner(host.NewParallel(), Options{Settings: Settings{Pressurization: false}})
	assert.False(t, s.Settings().Pressurization)
	assert.Equal(t, 30*time.Second, s.Settings().MinView)
	assert.Equal(t, 300*time.Second, s.Settings().MaxView)
	assert.Equal(t, 1.0, s.Settings().ViewSecondsPerMeter)
}
