package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-songseq/config"
	"go-songseq/debug"
	"go-songseq/midi"
	"go-songseq/sequencer"
	"go-songseq/theme"
	"go-songseq/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "write a debug log to ~/.config/go-songseq/debug.log")
	portFlag := flag.String("port", "", "MIDI output port name (overrides config)")
	songFlag := flag.String("song", "", "saved song to open (overrides last song)")
	listPorts := flag.Bool("list-ports", false, "print available MIDI output ports and exit")
	flag.Parse()

	if *listPorts {
		for _, name := range midi.Ports() {
			fmt.Println(name)
		}
		return
	}

	if *debugFlag {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *portFlag != "" {
		cfg.OutputPort = *portFlag
	}
	if cfg.OutputPort == "" {
		if ports := midi.Ports(); len(ports) > 0 {
			cfg.OutputPort = ports[0]
		}
	}

	songName := cfg.UI.LastSong
	if *songFlag != "" {
		songName = *songFlag
	}
	var song *sequencer.Song
	if songName != "" {
		song, err = sequencer.LoadSong(songName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "song %q: %v\n", songName, err)
			song = nil
		}
	}
	if song == nil {
		song = sequencer.NewSong("untitled")
	}
	if cfg.UI.LastTempo > 0 {
		sequencer.S.Tempo = cfg.UI.LastTempo
	}

	out := midi.NewOut()
	defer out.Close()

	manager := sequencer.NewManager(song, out)
	manager.SetDefaultPort(cfg.OutputPort)
	manager.StartRuntime()
	defer manager.Shutdown()

	model := tui.NewModel(manager, theme.New())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}

	_, _, tempo := manager.GetState()
	cfg.UI.LastTempo = tempo
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "config save: %v\n", err)
	}
}
