package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"go-songseq/sequencer"
	"go-songseq/theme"
)

// timelineCells is how many beat cells the arrangement strip shows.
const timelineCells = 64

// triggerBeats is the length, in beats, of a trigger placed with the 'a' key.
const triggerBeats = 4

type Model struct {
	Manager *sequencer.Manager
	Theme   *theme.Theme

	cursor   int // selected track
	quitting bool
	status   string
}

type UpdateMsg struct{}

func NewModel(manager *sequencer.Manager, th *theme.Theme) Model {
	return Model{
		Manager: manager,
		Theme:   th,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Manager)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Manager.Stop()
			return m, tea.Quit

		case " ":
			_, playing, _ := m.Manager.GetState()
			if playing {
				m.Manager.Stop()
			} else {
				m.Manager.Play()
			}

		case "+", "=":
			_, _, tempo := m.Manager.GetState()
			m.Manager.SetTempo(tempo + 5)

		case "-", "_":
			_, _, tempo := m.Manager.GetState()
			m.Manager.SetTempo(tempo - 5)

		case "j", "down":
			if m.cursor < sequencer.NumTracks-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}

		case "a":
			p := m.pattern()
			tick, _, _ := m.Manager.GetState()
			p.AddTrigger(tick, triggerBeats*sequencer.DefaultPPQN, 0)
			m.status = fmt.Sprintf("added %d-beat segment at %d", triggerBeats, tick)

		case "s":
			tick, _, _ := m.Manager.GetState()
			if m.pattern().SplitTrigger(tick) {
				m.status = "split segment"
			} else {
				m.status = "no segment under playhead"
			}

		case "x":
			p := m.pattern()
			tick, _, _ := m.Manager.GetState()
			if p.SelectTrigger(tick) && p.RemoveSelectedTrigger() {
				m.status = "removed segment"
			} else {
				m.status = "no segment under playhead"
			}
			p.UnselectTriggers()

		case "y":
			p := m.pattern()
			tick, _, _ := m.Manager.GetState()
			if p.SelectTrigger(tick) && p.CopySelectedTrigger() {
				m.status = "copied segment"
			}
			p.UnselectTriggers()

		case "p":
			m.pattern().PasteTrigger()
			m.status = "pasted"

		case "m":
			p := m.pattern()
			p.Muted = !p.Muted
			m.status = fmt.Sprintf("%s muted=%v", p.Name, p.Muted)

		case "u":
			m.pattern().Undo()
			m.status = "undo"
		case "r":
			m.pattern().Redo()
			m.status = "redo"

		case "c":
			m.pattern().ClearTriggers()
			m.status = "cleared track"
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)
	}

	return m, nil
}

func (m Model) pattern() *sequencer.Pattern {
	return m.Manager.Song().Patterns[m.cursor]
}

func (m Model) View() string {
	if m.quitting {
		return "bye\n"
	}

	th := m.Theme
	tick, playing, tempo := m.Manager.GetState()
	song := m.Manager.Song()

	var out strings.Builder
	out.WriteString(th.Title.Render("go-songseq"))
	state := "stopped"
	if playing {
		state = "playing"
	}
	out.WriteString(th.Track.Render(fmt.Sprintf("  %s  tempo %d  tick %d", state, tempo, tick)))
	out.WriteString("\n\n")

	// One beat per cell; the playhead cell gets its own glyph.
	playheadCell := int(tick / sequencer.DefaultPPQN)
	for i, p := range song.Patterns {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		name := p.Name
		if p.Muted {
			name += " (m)"
		}
		out.WriteString(th.Track.Render(fmt.Sprintf("%s%-12s ", marker, name)))

		for cell := 0; cell < timelineCells; cell++ {
			cellTick := int64(cell) * sequencer.DefaultPPQN
			var r rune
			var style = th.Gap
			switch {
			case playing && cell == playheadCell:
				r = th.Symbols.Playhead
				style = th.Playhead
			case p.TriggeredAt(cellTick):
				r = th.Symbols.Segment
				style = th.Segment
			default:
				r = th.Symbols.Gap
			}
			out.WriteString(style.Render(string(r)))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	if m.status != "" {
		out.WriteString(th.Track.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(th.Help.Render(
		"space play/stop  j/k track  a add  s split  x remove  y copy  p paste  m mute  u/r undo/redo  c clear  +/- tempo  q quit"))
	out.WriteString("\n")

	return out.String()
}
