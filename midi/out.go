package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Out manages MIDI output ports, opening senders lazily by port name so the
// playback loop never blocks on port discovery.
type Out struct {
	mu      sync.RWMutex
	senders map[string]func(gomidi.Message) error
}

// NewOut creates an output manager with no ports opened yet.
func NewOut() *Out {
	return &Out{
		senders: make(map[string]func(gomidi.Message) error),
	}
}

// Ports returns the names of all available MIDI output ports.
func Ports() []string {
	var names []string
	for _, p := range gomidi.GetOutPorts() {
		names = append(names, p.String())
	}
	return names
}

// Sender returns a send function for the given port name, opening the port
// on first use. Returns nil if the port cannot be found or opened.
func (o *Out) Sender(portName string) func(gomidi.Message) error {
	if portName == "" {
		return nil
	}

	o.mu.RLock()
	if sender, ok := o.senders[portName]; ok {
		o.mu.RUnlock()
		return sender
	}
	o.mu.RUnlock()

	o.mu.Lock()
	defer o.mu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := o.senders[portName]; ok {
		return sender
	}

	for _, port := range gomidi.GetOutPorts() {
		if port.String() == portName {
			sender, err := gomidi.SendTo(port)
			if err != nil {
				return nil
			}
			o.senders[portName] = sender
			return sender
		}
	}
	return nil
}

// Send dispatches one event to the named port. Events for unknown ports are
// dropped silently; playback must not stall on a missing device.
func (o *Out) Send(portName string, e Event) {
	sender := o.Sender(portName)
	if sender == nil {
		return
	}

	ch := e.Channel - 1
	switch e.Type {
	case NoteOn:
		sender(gomidi.NoteOn(ch, e.Note, e.Velocity))
	case NoteOff:
		sender(gomidi.NoteOff(ch, e.Note))
	}
}

// Silence sends all-notes-off on the given channel of the named port.
func (o *Out) Silence(portName string, channel uint8) {
	sender := o.Sender(portName)
	if sender == nil {
		return
	}
	sender(gomidi.ControlChange(channel-1, 123, 0))
}

// Close shuts the MIDI driver down; senders become invalid afterwards.
func (o *Out) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.senders = make(map[string]func(gomidi.Message) error)
	gomidi.CloseDriver()
}
