package maze

import (
	"strings"
)

// WallHitMessage is the error recorded when a forward move is blocked
const WallHitMessage = "Can't move forward - hit a wall!"

// Status is the simulator's state machine position
type Status int

const (
	Running Status = iota
	Completed
	Errored
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Simulator holds the robot's spatial state for one level attempt.
// Completed and Errored are terminal: once either is reached, Execute is
// a no-op returning false. A simulator is never rewound; build a new one
// to retry.
type Simulator struct {
	grid    Grid
	pos     Position
	dir     Heading
	path    []Position
	visited map[Position]bool
	order   []Position // visited positions in first-visit order

	completed bool
	failure   string

	sensors map[Relative]bool
}

// New creates a simulator with the robot at start facing heading
func New(grid Grid, start Position, heading Heading) *Simulator {
	s := &Simulator{
		grid:    grid,
		pos:     start,
		dir:     heading,
		path:    []Position{start},
		visited: make(map[Position]bool),
		sensors: make(map[Relative]bool),
	}
	s.visit(start)
	return s
}

func (s *Simulator) visit(p Position) {
	if !s.visited[p] {
		s.visited[p] = true
		s.order = append(s.order, p)
	}
}

// Execute applies one instruction: "forward", "turn left" or "turn right"
// ("move", "move forward", "left" and "right" are accepted too).
// It returns false when the instruction failed or the run is already over.
func (s *Simulator) Execute(command string) bool {
	if s.Done() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(command)) {
	case "forward", "move forward", "move":
		return s.moveForward()
	case "turn left", "left":
		s.dir = s.dir.turn(-1)
		return true
	case "turn right", "right":
		s.dir = s.dir.turn(1)
		return true
	default:
		s.failure = "Unknown command: " + command
		return false
	}
}

func (s *Simulator) moveForward() bool {
	next := s.pos.step(s.dir)
	if s.grid.Blocked(next) {
		s.failure = WallHitMessage
		return false
	}

	s.pos = next
	s.path = append(s.path, next)
	s.visit(next)

	if s.grid.At(next) == End {
		s.completed = true
	}
	return true
}

// Fail records a failure raised outside the simulator, such as a runtime
// error in the program driving it. It has no effect once the run is over.
func (s *Simulator) Fail(message string) {
	if s.Done() {
		return
	}
	s.failure = message
}

// absolute converts a relative direction to a compass heading
func (s *Simulator) absolute(r Relative) Heading {
	return s.dir.turn(int(r))
}

// Sensor reports whether the cell in direction r is a wall or off-grid.
// The result is cached for LastSensor.
func (s *Simulator) Sensor(r Relative) bool {
	blocked := s.grid.Blocked(s.pos.step(s.absolute(r)))
	s.sensors[r] = blocked
	return blocked
}

// LastSensor returns the most recent Sensor reading for r
func (s *Simulator) LastSensor(r Relative) (blocked, ok bool) {
	blocked, ok = s.sensors[r]
	return blocked, ok
}

// IsCloser reports whether one step in direction r, if not blocked,
// strictly shortens the shortest path to the goal. Unreachable distances
// on either side yield false.
func (s *Simulator) IsCloser(r Relative) bool {
	target := s.pos.step(s.absolute(r))
	if s.grid.Blocked(target) {
		return false
	}
	here := s.computeDistance(s.pos)
	there := s.computeDistance(target)
	if here < 0 || there < 0 {
		return false
	}
	return there < here
}

// DistanceToGoal returns the shortest-path hop count from the robot to
// the nearest end cell, or -1 if no end cell is reachable.
func (s *Simulator) DistanceToGoal() int {
	return s.computeDistance(s.pos)
}

// Position returns the robot's current cell
func (s *Simulator) Position() Position { return s.pos }

// Heading returns the robot's current compass heading
func (s *Simulator) Heading() Heading { return s.dir }

// Grid returns the maze the robot moves in
func (s *Simulator) Grid() Grid { return s.grid }

// Path returns every position the robot has occupied, in order
func (s *Simulator) Path() []Position {
	out := make([]Position, len(s.path))
	copy(out, s.path)
	return out
}

// Visited reports whether the robot has been on p
func (s *Simulator) Visited(p Position) bool { return s.visited[p] }

// VisitedPositions returns the distinct visited cells in first-visit order
func (s *Simulator) VisitedPositions() []Position {
	out := make([]Position, len(s.order))
	copy(out, s.order)
	return out
}

// Completed reports whether the robot reached the goal
func (s *Simulator) Completed() bool { return s.completed }

// Failed reports whether the run stopped on an error
func (s *Simulator) Failed() bool { return s.failure != "" }

// Failure returns the error message, or "" when there is none
func (s *Simulator) Failure() string { return s.failure }

// Done reports whether the run reached a terminal state
func (s *Simulator) Done() bool { return s.completed || s.failure != "" }

// Status returns the state machine position
func (s *Simulator) Status() Status {
	switch {
	case s.completed:
		return Completed
	case s.failure != "":
		return Errored
	default:
		return Running
	}
}
