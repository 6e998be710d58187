// Command pathedit is a terminal editor for robot paths.
//
// Draw with mouse button 1. Keys:
//
//	p add path    w add waypoint   m move waypoint   v edit vector
//	s select      d delete         n no mode         l toggle latch
//	h smooth      f next field     g generate        q quit
//	1-4 edit a limit (track width, velocity, acceleration, jerk),
//	    type a number and press Enter
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/config"
	"github.com/npillmayer/fieldpath/editor"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/session"
	"github.com/npillmayer/fieldpath/trajectory"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'pathedit'
func tracer() tracing.Trace {
	return tracing.Select("pathedit")
}

// statusRows are reserved at the bottom of the screen.
const statusRows = 3

// cellAspect is the height of a terminal cell in units of its width.
const cellAspect = 2.0

type app struct {
	screen  tcell.Screen
	sess    *session.Session
	ctx     context.Context
	pressed bool        // mouse button 1 down
	editing params.Kind // limit being edited, if input is active
	input   *strings.Builder
	message string
	dropped atomic.Int64 // results lost to a full event queue
}

func newApp(ctx context.Context, screen tcell.Screen, cfg config.Config) (*app, error) {
	sess, err := session.New(cfg, cfg.Generator())
	if err != nil {
		return nil, err
	}
	a := &app{screen: screen, sess: sess, ctx: ctx}
	sess.SetDispatcher(a.post)
	sess.OnResult(func(r *trajectory.Result) {
		a.message = summary(r)
	})
	a.layout()
	return a, nil
}

// post delivers f on the event loop.
func (a *app) post(f func()) {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(f)); err != nil {
		a.dropped.Add(1)
		tracer().Errorf("dropping generation result: %v", err)
	}
}

// layout publishes the drawing area. Cells are taller than wide, so a
// row counts cellAspect pixels.
func (a *app) layout() {
	w, h := a.screen.Size()
	rows := h - statusRows
	if rows < 0 {
		rows = 0
	}
	a.sess.Layout(float64(w), float64(rows)*cellAspect)
}

func toPixel(col, row int) fieldpath.Pair {
	return fieldpath.P(float64(col)+0.5, (float64(row)+0.5)*cellAspect)
}

func toCell(px fieldpath.Pair) (int, int) {
	return int(px.X()), int(px.Y() / cellAspect)
}

// handle processes one event and reports whether to go on.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.layout()
		a.screen.Sync()
	case *tcell.EventInterrupt:
		if f, ok := ev.Data().(func()); ok {
			f()
		}
	case *tcell.EventMouse:
		a.mouse(ev)
	case *tcell.EventKey:
		return a.key(ev)
	}
	return true
}

func (a *app) mouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	var phase editor.Phase
	switch {
	case down && !a.pressed:
		phase = editor.Down
	case down:
		phase = editor.Move
	case a.pressed:
		phase = editor.Up
	default:
		return
	}
	a.pressed = down
	x, y := toPixel(col, row).F()
	if _, err := a.sess.Pointer(editor.Pointer(phase, x, y)); err != nil {
		a.message = err.Error()
	}
}

var modeKeys = map[rune]editor.Mode{
	'n': editor.None,
	'p': editor.AddPath,
	'w': editor.AddWaypoint,
	'm': editor.MoveWaypoint,
	'v': editor.EditVector,
	's': editor.SelectPath,
	'd': editor.DeletePath,
}

func (a *app) key(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if a.input != nil {
		a.limitInput(ev)
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}
	r := ev.Rune()
	if m, ok := modeKeys[r]; ok {
		a.sess.SetMode(m)
		return true
	}
	switch r {
	case 'q':
		return false
	case 'l':
		a.sess.SetLatch(!a.sess.State().Latch)
	case 'h':
		if err := a.sess.Smooth(); err != nil {
			a.message = err.Error()
		}
	case 'f':
		a.nextField()
	case 'g':
		if a.sess.Generate(a.ctx) == nil {
			a.message = "generation starts when the gesture completes"
		} else {
			a.message = "generating..."
		}
	case '1', '2', '3', '4':
		a.editing = params.Kinds()[r-'1']
		a.input = &strings.Builder{}
	}
	return true
}

func (a *app) limitInput(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		if err := a.sess.SetParam(a.editing, a.input.String()); err != nil {
			a.message = err.Error()
		} else {
			a.message = ""
		}
		a.input = nil
	case tcell.KeyEscape:
		a.input = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		text := a.input.String()
		if len(text) > 0 {
			a.input.Reset()
			a.input.WriteString(text[:len(text)-1])
		}
	case tcell.KeyRune:
		a.input.WriteRune(ev.Rune())
	}
}

func (a *app) nextField() {
	names := a.sess.Fields().Names()
	current := a.sess.Canvas().Field().Name
	for i, name := range names {
		if name == current {
			if err := a.sess.SelectField(names[(i+1)%len(names)]); err != nil {
				a.message = err.Error()
			}
			return
		}
	}
}

// --- Drawing ---------------------------------------------------------------

var (
	styleCurve    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleWaypoint = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleVector   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (a *app) draw() {
	a.screen.Clear()
	tracker := a.sess.Canvas()
	ext := tracker.Extents()
	field := tracker.Field()
	right, bottom := toCell(tracker.ToPixel(fieldpath.P(field.Width, 0)))
	for col := 0; col <= right; col++ {
		a.screen.SetContent(col, bottom, '─', nil, styleBorder)
	}
	for row := 0; row <= bottom; row++ {
		a.screen.SetContent(right, row, '│', nil, styleBorder)
	}
	active := a.sess.Paths().Active()
	for _, p := range a.sess.Paths().Paths() {
		style := styleCurve
		if p.Label() == active {
			style = styleActive
		}
		if curve, err := p.Curve(); err == nil {
			for _, pt := range curve.Sample(curve.Segments()*int(ext.Width/4+8) + 1) {
				col, row := toCell(tracker.ToPixel(pt))
				a.screen.SetContent(col, row, '·', nil, style)
			}
		}
		for i, wp := range p.Waypoints() {
			tip := wp + p.Vector(i)
			col, row := toCell(tracker.ToPixel(tip))
			a.screen.SetContent(col, row, '+', nil, styleVector)
			col, row = toCell(tracker.ToPixel(wp))
			a.screen.SetContent(col, row, 'o', nil, styleWaypoint)
		}
		if p.Len() > 0 {
			col, row := toCell(tracker.ToPixel(p.Waypoint(0)))
			a.text(col+1, row, p.Label(), style)
		}
	}
	a.status()
	a.screen.Show()
}

func (a *app) status() {
	w, h := a.screen.Size()
	for row := h - statusRows; row < h; row++ {
		for col := 0; col < w; col++ {
			a.screen.SetContent(col, row, ' ', nil, styleStatus)
		}
	}
	st := a.sess.State()
	a.text(0, h-3, fmt.Sprintf(" mode %s  latch %v  active %q  field %s",
		st.Mode, st.Latch, st.Active, a.sess.Canvas().Field()), styleStatus)
	store := a.sess.Params()
	var limits []string
	for i, k := range params.Kinds() {
		text := store.Text(k)
		if a.input != nil && k == a.editing {
			text = a.input.String() + "_"
		} else if store.Err(k) != nil {
			text += "!"
		}
		limits = append(limits, fmt.Sprintf("%d:%s=%s", i+1, k, text))
	}
	a.text(0, h-2, " "+strings.Join(limits, "  "), styleStatus)
	msg := a.message
	if r := a.sess.Latest(); r != nil && a.sess.Current() == nil {
		msg = "(stale) " + msg
	}
	if n := a.dropped.Load(); n > 0 {
		msg = fmt.Sprintf("%s [%d result(s) dropped, press g]", msg, n)
	}
	a.text(0, h-1, " "+msg, styleStatus)
}

func (a *app) text(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func summary(r *trajectory.Result) string {
	if r.Err != nil {
		return "generation failed: " + r.Err.Error()
	}
	var parts []string
	for _, label := range r.Labels() {
		out := r.Outcomes[label]
		switch {
		case out.Warning != nil:
			parts = append(parts, out.Warning.Error())
		case out.Err != nil:
			parts = append(parts, fmt.Sprintf("%s: %v", label, out.Err))
		default:
			parts = append(parts, fmt.Sprintf("%s: %.2fs", label, out.Trajectory.Duration()))
		}
	}
	return strings.Join(parts, ", ")
}

func (a *app) run() {
	for {
		a.draw()
		if !a.handle(a.screen.PollEvent()) {
			return
		}
	}
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	flag.Parse()
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyTraceLevel("pathedit")
	screen.EnableMouse()
	ctx, cancel := context.WithCancel(context.Background())
	a, err := newApp(ctx, screen, cfg)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	a.run()
	cancel()
	screen.Fini()
}
