// Package ui is the interactive terminal front end. It translates key and
// mouse input into session operations and draws the board with tcell.
package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/sheikhrachel/gol-board/session"
	"github.com/sheikhrachel/gol-board/utils"
)

const (
	cellWidth = 2
	aliveRune = '█'
	helpText  = "space run/stop  n step  r random  c clear  +/- size  q quit"
)

// Action is a user intent decoded from a terminal event
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRunStop
	ActionStep
	ActionRandomize
	ActionClear
	ActionGrow
	ActionShrink
	ActionToggle
	ActionRedraw
)

// Command is an Action plus the board cell it targets, if any
type Command struct {
	Action Action
	Row    int
	Column int
}

// Terminal draws a session onto a tcell screen
type Terminal struct {
	screen  tcell.Screen
	buttons tcell.ButtonMask

	aliveStyle  tcell.Style
	deadStyle   tcell.Style
	statusStyle tcell.Style
}

// New wraps an initialized screen and enables mouse reporting
func New(screen tcell.Screen) *Terminal {
	screen.EnableMouse()
	screen.HideCursor()
	return &Terminal{
		screen:      screen,
		aliveStyle:  tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack),
		deadStyle:   tcell.StyleDefault.Background(tcell.ColorBlack),
		statusStyle: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	}
}

// Translate decodes a terminal event. Mouse clicks toggle on the press edge
// only, so holding the button down does not flicker a cell.
func (t *Terminal) Translate(ev tcell.Event) Command {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev)
	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
		t.buttons = buttons
		if !pressed {
			return Command{}
		}
		x, y := ev.Position()
		return Command{Action: ActionToggle, Row: y, Column: x / cellWidth}
	case *tcell.EventResize:
		return Command{Action: ActionRedraw}
	}
	return Command{}
}

func translateKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Command{Action: ActionQuit}
	case tcell.KeyEnter:
		return Command{Action: ActionRunStop}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return Command{Action: ActionQuit}
		case ' ':
			return Command{Action: ActionRunStop}
		case 'n', 'N':
			return Command{Action: ActionStep}
		case 'r', 'R':
			return Command{Action: ActionRandomize}
		case 'c', 'C':
			return Command{Action: ActionClear}
		case '+', '=':
			return Command{Action: ActionGrow}
		case '-', '_':
			return Command{Action: ActionShrink}
		}
	}
	return Command{}
}

// Apply runs a command against the session and reports whether to quit
func Apply(s *session.Session, cmd Command) (quit bool, err error) {
	switch cmd.Action {
	case ActionQuit:
		s.Stop()
		return true, nil
	case ActionRunStop:
		if s.State() == session.Running {
			s.Stop()
		} else {
			s.Start()
		}
	case ActionStep:
		if s.State() == session.Stopped {
			s.Step()
		}
	case ActionRandomize:
		err = s.Randomize()
	case ActionClear:
		s.Clear()
	case ActionGrow:
		if size := s.Size() + utils.GridSizeStep; size <= utils.MaxGridSize {
			err = s.Resize(size)
		}
	case ActionShrink:
		if size := s.Size() - utils.GridSizeStep; size >= utils.MinGridSize {
			err = s.Resize(size)
		}
	case ActionToggle:
		s.Toggle(cmd.Row, cmd.Column)
	}
	return false, err
}

// Draw renders the board and a status line below it
func (t *Terminal) Draw(s *session.Session) {
	t.screen.Clear()
	grid := s.Grid()
	for row := range grid.Size() {
		for column := range grid.Size() {
			r, style := ' ', t.deadStyle
			if grid.Get(row, column) {
				r, style = aliveRune, t.aliveStyle
			}
			for i := range cellWidth {
				t.screen.SetContent(column*cellWidth+i, row, r, nil, style)
			}
		}
	}

	stats := s.Stats()
	status := fmt.Sprintf("gen %d | pop %d | %s | %dx%d | %.1f gen/s",
		s.Generation(), grid.CountLivingCells(), s.State(), grid.Size(), grid.Size(), stats.GenerationsPerSecond)
	if s.Stagnant() {
		status += " | stagnant"
	}
	t.drawText(0, grid.Size(), status)
	t.drawText(0, grid.Size()+1, helpText)
	t.screen.Show()
}

func (t *Terminal) drawText(x, y int, text string) {
	for _, r := range text {
		t.screen.SetContent(x, y, r, nil, t.statusStyle)
		x++
	}
}

// Run is the host loop. It is the only goroutine that touches the session:
// scheduler ticks and terminal events are both handled here, one at a time.
func (t *Terminal) Run(ctx context.Context, s *session.Session, ticks <-chan func(), events <-chan tcell.Event) error {
	t.Draw(s)
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return nil
		case tick := <-ticks:
			tick()
		case ev, ok := <-events:
			if !ok {
				s.Stop()
				return nil
			}
			quit, err := Apply(s, t.Translate(ev))
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				t.screen.Sync()
			}
		}
		t.Draw(s)
	}
}
