package maze

import (
	"fmt"
	"strings"
)

// Cell is the kind of a grid square
type Cell int

const (
	Empty Cell = iota
	Wall
	Start
	End
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Grid is a row-major maze: Grid[y][x]
type Grid [][]Cell

// Position is a grid coordinate; y grows downwards
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Heading is an absolute compass direction
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

func (h Heading) String() string {
	switch h {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// ParseHeading maps a compass name to a Heading
func ParseHeading(name string) (Heading, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "north", "n", "up":
		return North, nil
	case "east", "e", "right":
		return East, nil
	case "south", "s", "down":
		return South, nil
	case "west", "w", "left":
		return West, nil
	}
	return 0, fmt.Errorf("unknown heading %q", name)
}

// Relative is a direction relative to the robot's heading; its value is
// the clockwise quarter-turn offset from the heading.
type Relative int

const (
	Front Relative = iota
	RightSide
	Back
	LeftSide
)

func (r Relative) String() string {
	switch r {
	case Front:
		return "front"
	case RightSide:
		return "right"
	case Back:
		return "back"
	case LeftSide:
		return "left"
	default:
		return "unknown"
	}
}

// delta in heading order: north, east, south, west
var (
	dx = [4]int{0, 1, 0, -1}
	dy = [4]int{-1, 0, 1, 0}
)

func (h Heading) turn(quarterTurns int) Heading {
	return Heading(((int(h)+quarterTurns)%4 + 4) % 4)
}

// step returns the neighbour of p in heading h
func (p Position) step(h Heading) Position {
	return Position{X: p.X + dx[h], Y: p.Y + dy[h]}
}

// Width returns the number of columns
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows
func (g Grid) Height() int {
	return len(g)
}

// InBounds reports whether p lies on the grid
func (g Grid) InBounds(p Position) bool {
	return p.Y >= 0 && p.Y < len(g) && p.X >= 0 && p.X < len(g[p.Y])
}

// At returns the cell at p; off-grid positions read as walls
func (g Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g[p.Y][p.X]
}

// Blocked reports whether p is off-grid or a wall
func (g Grid) Blocked(p Position) bool {
	return g.At(p) == Wall
}

// Find returns every position holding the given cell kind, row-major
func (g Grid) Find(kind Cell) []Position {
	var out []Position
	for y, row := range g {
		for x, c := range row {
			if c == kind {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Cell characters used by ParseGrid and Render
const (
	wallChar  = '#'
	emptyChar = '.'
	startChar = 'S'
	endChar   = 'E'
)

// ParseGrid reads an ASCII maze: '#' wall, '.' or ' ' empty, 'S' start,
// 'E' end. Leading and trailing blank lines are ignored; rows must all
// have the same width.
func ParseGrid(text string) (Grid, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("grid is empty")
	}

	grid := make(Grid, len(lines))
	width := len(lines[0])
	for y, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", y, len(line), width)
		}
		row := make([]Cell, width)
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case wallChar:
				row[x] = Wall
			case emptyChar, ' ':
				row[x] = Empty
			case startChar:
				row[x] = Start
			case endChar:
				row[x] = End
			default:
				return nil, fmt.Errorf("unknown cell %q at row %d column %d", line[x], y, x)
			}
		}
		grid[y] = row
	}
	return grid, nil
}

// String renders the grid in ParseGrid's notation
func (g Grid) String() string {
	var sb strings.Builder
	for y, row := range g {
		for _, c := range row {
			sb.WriteByte(cellChar(c))
		}
		if y < len(g)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellChar(c Cell) byte {
	switch c {
	case Wall:
		return wallChar
	case Start:
		return startChar
	case End:
		return endChar
	default:
		return emptyChar
	}
}
