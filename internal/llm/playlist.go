package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Playlist is a scripted sequence of programs, used for demos and replays.
type Playlist struct {
	Name    string          `yaml:"name"`
	Entries []PlaylistEntry `yaml:"entries"`
}

// PlaylistEntry is one scripted reply. Exactly one of Code or File is set;
// File is relative to the playlist file. Match, when set, routes prompts
// containing any of its words to this entry.
type PlaylistEntry struct {
	Match       []string `yaml:"match,omitempty"`
	Code        string   `yaml:"code,omitempty"`
	File        string   `yaml:"file,omitempty"`
	Explanation string   `yaml:"explanation,omitempty"`
	// Fail makes the entry reply with a generation error carrying this text.
	Fail string `yaml:"fail,omitempty"`
}

// LoadPlaylist reads a playlist file and inlines the files it references.
func LoadPlaylist(file string) (*Playlist, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	pl, err := ParsePlaylist(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(file)
	for i, e := range pl.Entries {
		if e.File == "" {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, e.File))
		if err != nil {
			return nil, fmt.Errorf("playlist entry %d: %w", i, err)
		}
		pl.Entries[i].Code = string(src)
		if pl.Entries[i].Explanation == "" {
			pl.Entries[i].Explanation = headline(string(src))
		}
	}
	return pl, nil
}

func ParsePlaylist(data []byte) (*Playlist, error) {
	var pl Playlist
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}
	if len(pl.Entries) == 0 {
		return nil, fmt.Errorf("parse playlist: no entries")
	}
	for i, e := range pl.Entries {
		if e.Code != "" && e.File != "" {
			return nil, fmt.Errorf("parse playlist: entry %d sets both code and file", i)
		}
	}
	return &pl, nil
}

// PlaylistGenerator replies with matching entries, falling back to the
// entries in order and wrapping around.
type PlaylistGenerator struct {
	mu   sync.Mutex
	pl   *Playlist
	next int
}

func NewPlaylistGenerator(pl *Playlist) *PlaylistGenerator {
	return &PlaylistGenerator{pl: pl}
}

func (g *PlaylistGenerator) Generate(ctx context.Context, prompt string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, generationError("%v", err)
	}
	e := g.pick(strings.ToLower(prompt))
	if e.Fail != "" {
		return Result{}, generationError("%s", e.Fail)
	}
	return Result{Code: Sanitize(e.Code), Explanation: e.Explanation}, nil
}

func (g *PlaylistGenerator) pick(prompt string) PlaylistEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range g.pl.Entries {
		for _, m := range e.Match {
			if m != "" && strings.Contains(prompt, strings.ToLower(m)) {
				return e
			}
		}
	}
	e := g.pl.Entries[g.next%len(g.pl.Entries)]
	g.next++
	return e
}
