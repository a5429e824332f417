package maze

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is one playable maze with its starting pose
type Level struct {
	ID          int
	Name        string
	Description string
	Grid        Grid
	Start       Position
	Heading     Heading
	FogOfWar    bool
}

// NewSimulator returns a fresh simulator positioned at the level start
func (l *Level) NewSimulator() *Simulator {
	return New(l.Grid, l.Start, l.Heading)
}

// Goal returns the first end cell in row-major order
func (l *Level) Goal() (Position, bool) {
	ends := l.Grid.Find(End)
	if len(ends) == 0 {
		return Position{}, false
	}
	return ends[0], true
}

// levelFile is the on-disk YAML shape of a level
type levelFile struct {
	ID          int       `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Heading     string    `yaml:"heading,omitempty"`
	Start       *Position `yaml:"start,omitempty"`
	FogOfWar    bool      `yaml:"fog_of_war,omitempty"`
	Grid        string    `yaml:"grid"`
}

// ParseLevel decodes and validates a YAML level document
func ParseLevel(data []byte) (*Level, error) {
	var raw levelFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("level: empty document")
		}
		return nil, fmt.Errorf("level: decode: %w", err)
	}
	return raw.build()
}

func (raw *levelFile) build() (*Level, error) {
	name := raw.Name
	if name == "" {
		name = fmt.Sprintf("level %d", raw.ID)
	}

	grid, err := ParseGrid(raw.Grid)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}

	heading := East
	if raw.Heading != "" {
		heading, err = ParseHeading(raw.Heading)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", name, err)
		}
	}

	var start Position
	starts := grid.Find(Start)
	switch {
	case raw.Start != nil:
		start = *raw.Start
	case len(starts) == 1:
		start = starts[0]
	case len(starts) == 0:
		return nil, fmt.Errorf("level %q: no start cell 'S' and no explicit start", name)
	default:
		return nil, fmt.Errorf("level %q: %d start cells, expected one", name, len(starts))
	}
	if grid.Blocked(start) {
		return nil, fmt.Errorf("level %q: start %s is a wall or off the grid", name, start)
	}
	if len(grid.Find(End)) == 0 {
		return nil, fmt.Errorf("level %q: no end cell 'E'", name)
	}

	return &Level{
		ID:          raw.ID,
		Name:        name,
		Description: strings.TrimSpace(raw.Description),
		Grid:        grid,
		Start:       start,
		Heading:     heading,
		FogOfWar:    raw.FogOfWar,
	}, nil
}

// MarshalYAML writes the level back in its file form
func (l *Level) MarshalYAML() (interface{}, error) {
	raw := levelFile{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Heading:     l.Heading.String(),
		FogOfWar:    l.FogOfWar,
		Grid:        l.Grid.String() + "\n",
	}
	if starts := l.Grid.Find(Start); len(starts) != 1 || starts[0] != l.Start {
		start := l.Start
		raw.Start = &start
	}
	return raw, nil
}

// LoadLevel reads one level file from disk
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// LoadLevels reads every .yaml/.yml file in dir and returns the levels
// ordered by ID. Duplicate IDs are an error.
func LoadLevels(dir string) ([]*Level, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("level: read dir %s: %w", dir, err)
	}

	var levels []*Level
	for _, entry := range entries {
		if entry.IsDir() || !isLevelFile(entry.Name()) {
			continue
		}
		lvl, err := LoadLevel(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return sortLevels(levels)
}

//go:embed levels/*.yaml
var builtinFS embed.FS

// BuiltinLevels returns the levels shipped with the binary, ordered by ID
func BuiltinLevels() ([]*Level, error) {
	entries, err := builtinFS.ReadDir("levels")
	if err != nil {
		return nil, fmt.Errorf("level: builtin: %w", err)
	}

	var levels []*Level
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("levels/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("level: builtin %s: %w", entry.Name(), err)
		}
		lvl, err := ParseLevel(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", entry.Name(), err)
		}
		levels = append(levels, lvl)
	}
	return sortLevels(levels)
}

// FindLevel returns the level with the given ID
func FindLevel(levels []*Level, id int) (*Level, bool) {
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, true
		}
	}
	return nil, false
}

func sortLevels(levels []*Level) ([]*Level, error) {
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	for i := 1; i < len(levels); i++ {
		if levels[i].ID == levels[i-1].ID {
			return nil, fmt.Errorf("level: duplicate id %d (%q and %q)",
				levels[i].ID, levels[i-1].Name, levels[i].Name)
		}
	}
	return levels, nil
}

func isLevelFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
