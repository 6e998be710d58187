package main

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/fieldpath/config"
	"github.com/npillmayer/fieldpath/editor"
	"github.com/npillmayer/fieldpath/trajectory"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulation(t *testing.T) *app {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 23)
	a, err := newApp(context.Background(), screen, config.Default())
	require.NoError(t, err)
	t.Cleanup(screen.Fini)
	return a
}

func TestCellMapping(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	col, row := toCell(toPixel(12, 7))
	assert.Equal(t, 12, col)
	assert.Equal(t, 7, row)
}

func TestMouseDrawsPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := simulation(t)
	assert.InDelta(t, 80, a.sess.Canvas().Extents().Width, 1e-9)
	assert.InDelta(t, 40, a.sess.Canvas().Extents().Height, 1e-9)
	a.sess.SetMode(editor.AddPath)
	a.handle(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone))
	assert.True(t, a.sess.State().InGesture())
	a.handle(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))
	assert.False(t, a.sess.State().InGesture())
	p, ok := a.sess.Paths().Get("A")
	require.True(t, ok)
	require.Equal(t, 1, p.Len())
	col, row := toCell(a.sess.Canvas().ToPixel(p.Waypoint(0)))
	assert.Equal(t, 10, col)
	assert.Equal(t, 5, row)
	// motion without a button is no gesture
	a.handle(tcell.NewEventMouse(20, 5, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, 1, p.Len())
	a.draw()
}

func TestSummary(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := &trajectory.IncompletePathWarning{Label: "B", Waypoints: 1}
	r := &trajectory.Result{
		Snapshot: &trajectory.Snapshot{Order: []string{"A", "B"}},
		Outcomes: map[string]trajectory.Outcome{
			"A": {Trajectory: &trajectory.Trajectory{Label: "A", Center: []trajectory.Segment{{Time: 0}, {Time: 2.5}}}},
			"B": {Warning: w},
		},
	}
	assert.Equal(t, "A: 2.50s, "+w.Error(), summary(r))
}

func TestFullQueueCountsDroppedResults(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := simulation(t)
	ran := 0
	for i := 0; i < 20; i++ {
		a.post(func() { ran++ })
	}
	assert.Greater(t, a.dropped.Load(), int64(0))
	for a.screen.HasPendingEvent() {
		a.handle(a.screen.PollEvent())
	}
	assert.Equal(t, int64(20), int64(ran)+a.dropped.Load())
	a.draw()
}
