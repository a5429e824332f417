package maze

// neighbourOrder is the fixed BFS expansion order: up, right, down, left
var neighbourOrder = [4]Heading{North, East, South, West}

// computeDistance runs a breadth-first search from origin over
// 4-connected non-wall cells and returns the hop count to the nearest
// end cell, or -1 when none is reachable.
func (s *Simulator) computeDistance(origin Position) int {
	return distance(s.grid, origin)
}

func distance(g Grid, origin Position) int {
	if g.Blocked(origin) {
		return -1
	}

	type node struct {
		pos  Position
		hops int
	}

	queue := []node{{pos: origin}}
	visited := map[Position]bool{origin: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if g.At(current.pos) == End {
			return current.hops
		}

		for _, h := range neighbourOrder {
			next := current.pos.step(h)
			if visited[next] || g.Blocked(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, node{pos: next, hops: current.hops + 1})
		}
	}

	return -1
}
