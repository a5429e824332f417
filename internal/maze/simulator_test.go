package maze

import (
	"testing"
)

func mustGrid(t *testing.T, text string) Grid {
	t.Helper()
	g, err := ParseGrid(text)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return g
}

const simpleMaze = `
#####
#S..E
#####`

func newSimple(t *testing.T) *Simulator {
	t.Helper()
	return New(mustGrid(t, simpleMaze), Position{X: 1, Y: 1}, East)
}

func TestNewSimulator(t *testing.T) {
	s := newSimple(t)
	if s.Position() != (Position{X: 1, Y: 1}) {
		t.Errorf("expected start (1,1), got %s", s.Position())
	}
	if s.Heading() != East {
		t.Errorf("expected heading east, got %s", s.Heading())
	}
	if path := s.Path(); len(path) != 1 || path[0] != (Position{X: 1, Y: 1}) {
		t.Errorf("expected path [(1,1)], got %v", path)
	}
	if s.Completed() || s.Failed() || s.Status() != Running {
		t.Errorf("expected running state, got %s", s.Status())
	}
	if !s.Visited(Position{X: 1, Y: 1}) {
		t.Error("expected start to be visited")
	}
}

func TestExecuteForward(t *testing.T) {
	s := newSimple(t)
	if !s.Execute("forward") {
		t.Fatal("expected forward to succeed")
	}
	if s.Position() != (Position{X: 2, Y: 1}) {
		t.Errorf("expected (2,1), got %s", s.Position())
	}
	path := s.Path()
	if len(path) != 2 || path[1] != (Position{X: 2, Y: 1}) {
		t.Errorf("unexpected path %v", path)
	}
}

func TestExecuteReachesGoal(t *testing.T) {
	s := newSimple(t)
	for i := 0; i < 3; i++ {
		if !s.Execute("forward") {
			t.Fatalf("forward %d failed: %s", i, s.Failure())
		}
	}
	if !s.Completed() || s.Status() != Completed {
		t.Fatalf("expected completed, got %s", s.Status())
	}
	if s.Failed() {
		t.Errorf("expected no failure, got %q", s.Failure())
	}
	// Terminal: further commands are rejected and change nothing
	if s.Execute("turn left") {
		t.Error("expected execute to fail after completion")
	}
	if s.Heading() != East {
		t.Errorf("heading changed after completion: %s", s.Heading())
	}
}

func TestExecuteHitsWall(t *testing.T) {
	s := newSimple(t)
	s.Execute("turn left") // north
	if s.Execute("forward") {
		t.Fatal("expected forward into wall to fail")
	}
	if s.Failure() != WallHitMessage {
		t.Errorf("expected %q, got %q", WallHitMessage, s.Failure())
	}
	if s.Position() != (Position{X: 1, Y: 1}) {
		t.Errorf("robot moved into wall: %s", s.Position())
	}
	if s.Status() != Errored {
		t.Errorf("expected errored, got %s", s.Status())
	}
	if s.Execute("turn right") {
		t.Error("expected execute to fail after error")
	}
}

func TestExecuteOffGrid(t *testing.T) {
	s := New(mustGrid(t, "S.E"), Position{X: 0, Y: 0}, West)
	if s.Execute("forward") {
		t.Fatal("expected moving off the grid to fail")
	}
	if s.Failure() != WallHitMessage {
		t.Errorf("expected wall message, got %q", s.Failure())
	}
}

func TestExecuteTurns(t *testing.T) {
	s := newSimple(t)
	steps := []struct {
		command  string
		expected Heading
	}{
		{"turn left", North},
		{"turn left", West},
		{"left", South},
		{"turn right", West},
		{"RIGHT", North},
		{"  turn right ", East},
	}
	for _, step := range steps {
		if !s.Execute(step.command) {
			t.Fatalf("%q failed", step.command)
		}
		if s.Heading() != step.expected {
			t.Errorf("after %q expected %s, got %s", step.command, step.expected, s.Heading())
		}
	}
}

func TestExecuteAliases(t *testing.T) {
	for _, cmd := range []string{"move", "move forward", "Forward"} {
		s := newSimple(t)
		if !s.Execute(cmd) {
			t.Errorf("%q failed: %s", cmd, s.Failure())
		}
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	s := newSimple(t)
	if s.Execute("jump") {
		t.Fatal("expected unknown command to fail")
	}
	if s.Failure() != "Unknown command: jump" {
		t.Errorf("unexpected failure %q", s.Failure())
	}
}

func TestFail(t *testing.T) {
	s := newSimple(t)
	s.Fail("Undefined variable 'n' at line 1")
	if !s.Failed() || s.Failure() != "Undefined variable 'n' at line 1" {
		t.Fatalf("unexpected failure %q", s.Failure())
	}
	s.Fail("second")
	if s.Failure() != "Undefined variable 'n' at line 1" {
		t.Errorf("failure was overwritten: %q", s.Failure())
	}
	if s.Execute("forward") {
		t.Error("expected execute to fail after Fail")
	}
}

func TestFailAfterCompletionIgnored(t *testing.T) {
	s := New(mustGrid(t, "SE"), Position{}, East)
	s.Execute("forward")
	s.Fail("late")
	if s.Failed() || !s.Completed() {
		t.Errorf("completed and errored must be exclusive, got %s / %q", s.Status(), s.Failure())
	}
}

func TestSensor(t *testing.T) {
	s := newSimple(t)
	tests := []struct {
		dir      Relative
		expected bool
	}{
		{Front, false},
		{Back, true},
		{LeftSide, true},
		{RightSide, true},
	}
	for _, tt := range tests {
		if got := s.Sensor(tt.dir); got != tt.expected {
			t.Errorf("sensor %s: expected %v, got %v", tt.dir, tt.expected, got)
		}
		cached, ok := s.LastSensor(tt.dir)
		if !ok || cached != tt.expected {
			t.Errorf("last sensor %s: expected %v, got %v (ok=%v)", tt.dir, tt.expected, cached, ok)
		}
	}
}

func TestSensorFollowsHeading(t *testing.T) {
	g := mustGrid(t, `
###
#.#
#S#
###`)
	s := New(g, Position{X: 1, Y: 2}, East)
	if !s.Sensor(Front) {
		t.Error("east of start is a wall")
	}
	if s.Sensor(LeftSide) {
		t.Error("north of start is open; left of east is north")
	}
	s.Execute("turn left")
	if s.Sensor(Front) {
		t.Error("after turning north, front should be open")
	}
	if !s.Sensor(Back) {
		t.Error("south of start is a wall")
	}
}

func TestSensorDoesNotMove(t *testing.T) {
	s := newSimple(t)
	s.Sensor(Front)
	s.IsCloser(Front)
	s.DistanceToGoal()
	if s.Position() != (Position{X: 1, Y: 1}) || s.Heading() != East || len(s.Path()) != 1 {
		t.Error("queries must not change robot state")
	}
}

func TestLastSensorUnset(t *testing.T) {
	s := newSimple(t)
	if _, ok := s.LastSensor(Front); ok {
		t.Error("expected no cached reading before the first query")
	}
}

func TestDistanceToGoal(t *testing.T) {
	tests := []struct {
		name     string
		grid     string
		start    Position
		expected int
	}{
		{"corridor", "S...E", Position{}, 4},
		{"on goal", "E..", Position{}, 0},
		{"adjacent", "SE", Position{}, 1},
		{"unreachable", "S.#.E", Position{}, -1},
		{"no goal", "S...", Position{}, -1},
		{"detour", `
S#E
.#.
...`, Position{}, 6},
		{"nearest of two", "E..S.E", Position{X: 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(mustGrid(t, tt.grid), tt.start, East)
			if got := s.DistanceToGoal(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDistanceShrinksAlongCorridor(t *testing.T) {
	for k := 1; k <= 6; k++ {
		row := "S"
		for i := 1; i < k; i++ {
			row += "."
		}
		row += "E"
		s := New(mustGrid(t, row), Position{}, East)
		for want := k; want >= 0; want-- {
			if got := s.DistanceToGoal(); got != want {
				t.Fatalf("corridor %d: expected %d, got %d", k, want, got)
			}
			if want > 0 {
				s.Execute("forward")
			}
		}
	}
}

func TestIsCloser(t *testing.T) {
	g := mustGrid(t, `
#####
#S..E
#.###
#####`)
	s := New(g, Position{X: 1, Y: 1}, East)

	if !s.IsCloser(Front) {
		t.Error("east leads to the goal")
	}
	if s.IsCloser(RightSide) {
		t.Error("south is open but farther from the goal")
	}
	if s.IsCloser(LeftSide) {
		t.Error("north is a wall")
	}
	if s.IsCloser(Back) {
		t.Error("west is a wall")
	}
}

func TestIsCloserFarther(t *testing.T) {
	g := mustGrid(t, `
.S.
...
.E.`)
	s := New(g, Position{X: 1, Y: 0}, South)
	if !s.IsCloser(Front) {
		t.Error("south is one step closer")
	}
	if s.IsCloser(LeftSide) || s.IsCloser(RightSide) {
		t.Error("east and west lead away from the goal")
	}
}

func TestIsCloserTie(t *testing.T) {
	// Two goals: the start and the cell in front are both one step from a goal
	s := New(mustGrid(t, "ES.E"), Position{X: 1}, East)
	if got := s.DistanceToGoal(); got != 1 {
		t.Fatalf("expected distance 1, got %d", got)
	}
	if s.IsCloser(Front) {
		t.Error("a step that keeps the distance equal is not closer")
	}
	if !s.IsCloser(Back) {
		t.Error("the goal behind is closer")
	}
}

func TestIsCloserUnreachable(t *testing.T) {
	s := New(mustGrid(t, "S.#E"), Position{}, East)
	if s.IsCloser(Front) {
		t.Error("nothing is closer when the goal is unreachable")
	}
}

func TestVisitedPositions(t *testing.T) {
	s := New(mustGrid(t, "S..E"), Position{}, East)
	s.Execute("forward")
	s.Execute("turn left")
	s.Execute("turn left")
	s.Execute("forward")
	s.Execute("turn left")
	s.Execute("turn left")
	s.Execute("forward")

	if got := len(s.Path()); got != 4 {
		t.Errorf("expected path length 4, got %d", got)
	}
	visited := s.VisitedPositions()
	expected := []Position{{X: 0}, {X: 1}}
	if len(visited) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, visited)
	}
	for i := range expected {
		if visited[i] != expected[i] {
			t.Errorf("visited[%d]: expected %s, got %s", i, expected[i], visited[i])
		}
	}
}

func TestPathIsCopy(t *testing.T) {
	s := newSimple(t)
	p := s.Path()
	p[0] = Position{X: 9, Y: 9}
	if s.Path()[0] != (Position{X: 1, Y: 1}) {
		t.Error("Path must return a copy")
	}
}

func TestRender(t *testing.T) {
	s := newSimple(t)
	s.Execute("forward")
	expected := "#####\n#S>.E\n#####"
	if got := s.Render(false); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
	s.Execute("forward")
	expected = "#####\n#So>E\n#####"
	if got := s.Render(false); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
}

func TestRenderFog(t *testing.T) {
	g := mustGrid(t, `
#######
#S...E#
#######`)
	s := New(g, Position{X: 1, Y: 1}, East)
	// Only the visited cell and its four neighbours are revealed
	expected := "?#?????\n#>.????\n?#?????"
	if got := s.Render(true); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
}
