// Package tui shows a simulation evolving live in the terminal: the engine
// produces states in a background goroutine and the view redraws the
// probability density on a fixed tick.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/qwave/internal/engine"
	"github.com/san-kum/qwave/internal/quantum"
	"github.com/san-kum/qwave/internal/viz"
)

// Frame is one renderable snapshot handed from the engine goroutine to the
// view.
type Frame struct {
	Step    int
	Time    float64
	Density []float64
	Norm    float64
	Err     error
	Done    bool
}

type TickMsg time.Time

// Model drives the live view. The engine owns the stepping; the model only
// consumes frames.
type Model struct {
	grid   quantum.Grid
	frames <-chan Frame
	cancel context.CancelFunc

	current Frame
	paused  bool
	fps     int
}

// NewModel starts the engine in the background, emitting every strideth
// state, and returns the view model. Cancel is invoked when the user quits.
func NewModel(ev *engine.Evolver, grid quantum.Grid, psi0 quantum.WaveState, stride, fps int) Model {
	if stride < 1 {
		stride = 1
	}
	if fps < 1 {
		fps = 30
	}

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan Frame, 1)

	go func() {
		defer close(frames)
		_, err := ev.RunWithCallback(ctx, psi0, func(step int, t float64, psi quantum.WaveState) bool {
			if step%stride != 0 {
				return true
			}
			frame := Frame{
				Step:    step,
				Time:    t,
				Density: psi.Density(),
				Norm:    psi.ProbabilityIntegral(grid.Dx),
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return false
			}
			return true
		})
		final := Frame{Done: true}
		if err != nil && ctx.Err() == nil {
			final = Frame{Err: err}
		}
		select {
		case frames <- final:
		case <-ctx.Done():
		}
	}()

	return Model{
		grid:   grid,
		frames: frames,
		cancel: cancel,
		fps:    fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case TickMsg:
		if !m.paused {
			select {
			case frame, ok := <-m.frames:
				if ok {
					if frame.Done {
						return m, tea.Quit
					}
					m.current = frame
				}
			default:
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.current.Err != nil {
		return viz.HeaderStyle.Render("simulation failed") + "\n" + m.current.Err.Error() + "\n"
	}
	if m.current.Density == nil {
		return viz.HeaderStyle.Render("waiting for first state...") + "\n"
	}

	header := viz.HeaderStyle.Render(fmt.Sprintf("qwave   t=%.5f   step %d   norm %.9f", m.current.Time, m.current.Step, m.current.Norm))
	graph := viz.GraphStyle.Render(viz.Series(m.current.Density, "|psi|^2"))
	help := viz.HelpStyle.Render("space pause  q quit")
	return header + "\n" + graph + "\n" + help + "\n"
}

// Run starts the bubbletea program and blocks until it exits.
func Run(ev *engine.Evolver, grid quantum.Grid, psi0 quantum.WaveState, stride, fps int) error {
	p := tea.NewProgram(NewModel(ev, grid, psi0, stride, fps))
	_, err := p.Run()
	return err
}
