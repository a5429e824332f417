package maze

import "strings"

const (
	pathChar = 'o'
	fogChar  = '?'
)

var robotChars = [4]byte{'^', '>', 'v', '<'}

// Render draws the maze with the robot as a heading arrow and visited
// cells marked 'o'. With fog, cells that are neither visited nor next to
// a visited cell are drawn as '?'.
func (s *Simulator) Render(fog bool) string {
	var sb strings.Builder
	for y, row := range s.grid {
		for x, c := range row {
			p := Position{X: x, Y: y}
			switch {
			case p == s.pos:
				sb.WriteByte(robotChars[s.dir])
			case fog && !s.revealed(p):
				sb.WriteByte(fogChar)
			case c == Empty && s.visited[p]:
				sb.WriteByte(pathChar)
			default:
				sb.WriteByte(cellChar(c))
			}
		}
		if y < len(s.grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// revealed reports whether p is visited or adjacent to a visited cell
func (s *Simulator) revealed(p Position) bool {
	if s.visited[p] {
		return true
	}
	for _, h := range neighbourOrder {
		if s.visited[p.step(h)] {
			return true
		}
	}
	return false
}
