package sequencer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go-songseq/trigger"
)

// SongState is the serialized form of a song. Trigger lists travel as the
// base64 of their binary triple block so the codec stays the single
// persisted representation of a segment.
type SongState struct {
	Name   string                   `json:"name"`
	Tempo  int                      `json:"tempo"`
	Tracks [NumTracks]*PatternState `json:"tracks"`
}

// PatternState holds one track's serialized pattern.
type PatternState struct {
	Name     string `json:"name"`
	Channel  uint8  `json:"channel"`
	PPQN     int64  `json:"ppqn"`
	Length   int64  `json:"length"`
	Notes    []Note `json:"notes,omitempty"`
	Triggers string `json:"triggers,omitempty"`
}

// State captures the song into its serializable form.
func (s *Song) State() (*SongState, error) {
	st := &SongState{Name: s.Name, Tempo: S.Tempo}
	for i, p := range s.Patterns {
		if p == nil {
			continue
		}
		block, err := triggerBlock(p)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		st.Tracks[i] = &PatternState{
			Name:     p.Name,
			Channel:  p.Channel,
			PPQN:     p.PPQN(),
			Length:   p.Length(),
			Notes:    p.Notes(),
			Triggers: block,
		}
	}
	return st, nil
}

func triggerBlock(p *Pattern) (string, error) {
	l := trigger.New(nil, p.PPQN(), p.Length())
	for _, t := range p.Triggers() {
		l.Add(t.Start, t.Length(), t.Offset, true)
	}
	data, err := l.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// SongFromState rebuilds a song from its serialized form.
func SongFromState(st *SongState) (*Song, error) {
	s := NewSong(st.Name)
	if st.Tempo > 0 {
		S.Tempo = st.Tempo
	}
	for i, ts := range st.Tracks {
		if ts == nil {
			continue
		}
		p := NewPattern(ts.Name, ts.Channel, 1)
		if ts.PPQN > 0 {
			p.ppqn = ts.PPQN
		}
		p.length = ts.Length
		// Rebuild the list at the serialized length directly: the stored
		// offsets are already normalized for it and must not be remapped.
		p.triggers = trigger.New(p, p.ppqn, ts.Length)
		p.notes = ts.Notes

		if ts.Triggers != "" {
			data, err := base64.StdEncoding.DecodeString(ts.Triggers)
			if err != nil {
				return nil, fmt.Errorf("track %d: %w", i, err)
			}
			if err := p.triggers.UnmarshalBinary(data); err != nil {
				return nil, fmt.Errorf("track %d: %w", i, err)
			}
		}
		s.Patterns[i] = p
	}
	return s, nil
}

// SongsDir returns the directory saved songs live in.
func SongsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-songseq", "songs"), nil
}

// SaveSong writes the song to the default songs directory as <name>.json.
func SaveSong(s *Song, name string) error {
	dir, err := SongsDir()
	if err != nil {
		return err
	}
	return SaveSongTo(dir, s, name)
}

// SaveSongTo writes the song to an explicit directory.
func SaveSongTo(dir string, s *Song, name string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	st, err := s.State()
	if err != nil {
		return err
	}
	st.Name = name
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+".json"), data, 0644)
}

// LoadSong reads a saved song from the default songs directory.
func LoadSong(name string) (*Song, error) {
	dir, err := SongsDir()
	if err != nil {
		return nil, err
	}
	return LoadSongFrom(dir, name)
}

// LoadSongFrom reads a saved song from an explicit directory.
func LoadSongFrom(dir, name string) (*Song, error) {
	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, err
	}
	var st SongState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return SongFromState(&st)
}

// ListSongs returns the names of all saved songs, sorted.
func ListSongs() ([]string, error) {
	dir, err := SongsDir()
	if err != nil {
		return nil, err
	}
	return ListSongsIn(dir)
}

// ListSongsIn lists saved songs in an explicit directory.
func ListSongsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
