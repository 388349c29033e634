package sequencer

import (
	"sync"
	"time"

	"go-songseq/debug"
	"go-songseq/midi"
)

// slicePeriod is how often the playback loop processes a window of ticks.
const slicePeriod = 25 * time.Millisecond

// uiFPS is how often the playhead position is pushed to the TUI.
const uiFPS = 30

// Manager owns the playback clock and drives every track's trigger engine
// once per time slice.
type Manager struct {
	song *Song
	out  *midi.Out

	defaultPort string

	mu            sync.RWMutex
	nextTick      int64 // first tick of the next slice
	stopChan      chan struct{}
	interruptChan chan struct{} // signal the play loop to recalculate now

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager for one song.
func NewManager(song *Song, out *midi.Out) *Manager {
	return &Manager{
		song:       song,
		out:        out,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Song returns the managed song.
func (m *Manager) Song() *Song {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.song
}

// SetSong swaps in a different song (after a load). Playback stops first.
func (m *Manager) SetSong(song *Song) {
	m.Stop()
	m.mu.Lock()
	m.song = song
	m.mu.Unlock()
	m.interrupt()
}

// SetDefaultPort sets the MIDI output port for all tracks.
func (m *Manager) SetDefaultPort(portName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPort = portName
}

// StartRuntime starts the playback goroutine (called once at startup).
func (m *Manager) StartRuntime() {
	m.stopChan = make(chan struct{})
	m.interruptChan = make(chan struct{}, 1)
	go m.playLoop()
}

// Shutdown stops the playback goroutine.
func (m *Manager) Shutdown() {
	if m.stopChan != nil {
		close(m.stopChan)
	}
}

// Play starts song playback from tick 0.
func (m *Manager) Play() {
	m.mu.Lock()
	if S.Playing {
		m.mu.Unlock()
		return
	}
	S.Playing = true
	S.T0 = time.Now()
	S.Tick = 0
	m.nextTick = 0
	song := m.song
	m.mu.Unlock()

	song.ResetPlayback()
	debug.Log("transport", "play")
	m.interrupt()
}

// Stop stops playback and silences every track.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !S.Playing {
		m.mu.Unlock()
		return
	}
	S.Playing = false
	song := m.song
	port := m.defaultPort
	m.mu.Unlock()

	song.ResetPlayback()
	for _, p := range song.Patterns {
		if p != nil {
			m.out.Silence(port, p.Channel)
		}
	}
	debug.Log("transport", "stop")
	m.notifyUpdate()
}

// SetTempo sets the BPM, clamped to a usable range.
func (m *Manager) SetTempo(bpm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	S.Tempo = bpm
}

// GetState returns the current playhead tick, play state and tempo.
func (m *Manager) GetState() (tick int64, playing bool, tempo int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return S.Tick, S.Playing, S.Tempo
}

// interrupt signals the play loop to process a slice immediately.
func (m *Manager) interrupt() {
	select {
	case m.interruptChan <- struct{}{}:
	default:
	}
}

// notifyUpdate nudges the TUI without blocking.
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// playLoop advances the playhead in slices: every pass converts the wall
// clock to a tick, hands the window since the previous pass to each track's
// trigger engine, and sends the returned events out.
func (m *Manager) playLoop() {
	ticker := time.NewTicker(slicePeriod)
	uiTicker := time.NewTicker(time.Second / uiFPS)
	defer ticker.Stop()
	defer uiTicker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-m.interruptChan:
			m.processSlice()
		case <-ticker.C:
			m.processSlice()
		case <-uiTicker.C:
			m.mu.Lock()
			if S.Playing {
				S.Tick = S.TimeToTick(time.Now())
			}
			m.mu.Unlock()
			m.notifyUpdate()
		}
	}
}

// processSlice plays the window [nextTick, now] across all tracks.
func (m *Manager) processSlice() {
	m.mu.Lock()
	if !S.Playing {
		m.mu.Unlock()
		return
	}
	start := m.nextTick
	end := S.TimeToTick(time.Now())
	if end < start {
		m.mu.Unlock()
		return
	}
	m.nextTick = end + 1
	song := m.song
	port := m.defaultPort
	m.mu.Unlock()

	events := song.PlaySlice(start, end)
	for _, e := range events {
		m.out.Send(port, e)
	}
	if len(events) > 0 {
		debug.LogEvery(20, "dispatch", "slice %d..%d events=%d", start, end, len(events))
	}
}
