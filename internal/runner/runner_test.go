package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/lhaig/mazebot/internal/diagnostic"
	"github.com/lhaig/mazebot/internal/executor"
	"github.com/lhaig/mazebot/internal/maze"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func corridor(t *testing.T) *maze.Level {
	t.Helper()
	lvl, err := maze.ParseLevel([]byte("id: 1\nname: Corridor\ngrid: \"S..E\"\n"))
	if err != nil {
		t.Fatalf("ParseLevel: %v", err)
	}
	return lvl
}

func TestCheckValidProgram(t *testing.T) {
	res := Check("(repeat 3 (forward))")
	if res.Diagnostics.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", res.Diagnostics.Format("test"))
	}
	if res.Program == nil {
		t.Fatal("expected a program")
	}
}

func TestCheckParseError(t *testing.T) {
	res := Check("(forward)\n(turn sideways)")
	if !res.Diagnostics.HasErrors() {
		t.Fatal("expected a parse error")
	}
	if res.Program != nil {
		t.Error("expected no program on parse error")
	}
	errs := res.Diagnostics.Errors()
	if len(errs) != 1 || errs[0].Line != 2 {
		t.Fatalf("expected one error on line 2, got %+v", errs)
	}
	if !strings.Contains(errs[0].Message, "Unknown turn direction 'sideways'") {
		t.Errorf("unexpected message %q", errs[0].Message)
	}
}

func TestCheckLintWarnings(t *testing.T) {
	res := Check("(function walk () (forward))")
	if res.Diagnostics.HasErrors() {
		t.Fatal("warnings must not be errors")
	}
	if res.Diagnostics.WarningCount() == 0 {
		t.Error("expected an unused function warning")
	}
}

func TestNewSessionParseError(t *testing.T) {
	_, err := NewSession("(forward", corridor(t), quiet)
	var perr *diagnostic.ProgramError
	if !errors.As(err, &perr) || perr.Kind != diagnostic.UnclosedList {
		t.Fatalf("expected unclosed list error, got %v", err)
	}
}

func TestNewSessionNoLevel(t *testing.T) {
	if _, err := NewSession("(forward)", nil); err == nil {
		t.Error("expected error without a level")
	}
}

func TestSessionStep(t *testing.T) {
	s, err := NewSession("(forward) (forward) (forward)", corridor(t), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if s.Steps() != 0 || s.Outcome() != Running {
		t.Fatal("a new session has not run")
	}

	expected := []Outcome{Running, Running, Completed}
	for i, want := range expected {
		r := s.Step()
		if r.Command != "forward" || r.Outcome != want {
			t.Fatalf("step %d: expected forward/%s, got %q/%s", i, want, r.Command, r.Outcome)
		}
		if r.Position != (maze.Position{X: i + 1}) {
			t.Errorf("step %d: unexpected position %s", i, r.Position)
		}
	}

	r := s.Step()
	if r.Command != "" || r.Outcome != Completed {
		t.Errorf("stepping a finished session must be a no-op, got %+v", r)
	}
	if s.Steps() != 3 {
		t.Errorf("expected 3 steps, got %d", s.Steps())
	}
}

func TestSessionOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		outcome Outcome
		failure string
	}{
		{"completed", "(repeat 3 (forward))", Completed, ""},
		{"wall", "(turn-left) (forward)", Failed, maze.WallHitMessage},
		{"runtime error", "(jump)", Failed, "Unknown function 'jump' at line 1"},
		{"out of program", "(forward)", OutOfProgram, ""},
		{"empty", "", OutOfProgram, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(tt.source, corridor(t), quiet)
			if err != nil {
				t.Fatal(err)
			}
			var last StepReport
			for i := 0; i < 100 && !last.Outcome.Terminal(); i++ {
				last = s.Step()
			}
			if last.Outcome != tt.outcome {
				t.Errorf("expected %s, got %s", tt.outcome, last.Outcome)
			}
			if last.Failure != tt.failure {
				t.Errorf("expected failure %q, got %q", tt.failure, last.Failure)
			}
		})
	}
}

func TestSessionReset(t *testing.T) {
	s, err := NewSession("(forward) (turn-left) (forward)", corridor(t), quiet)
	if err != nil {
		t.Fatal(err)
	}
	for !s.Outcome().Terminal() {
		s.Step()
	}
	if s.Outcome() != Failed {
		t.Fatalf("expected wall hit, got %s", s.Outcome())
	}

	s.Reset()
	if s.Outcome() != Running || s.Steps() != 0 {
		t.Fatal("reset must start a fresh attempt")
	}
	if s.Simulator().Position() != (maze.Position{}) || s.Simulator().Failed() {
		t.Error("reset must rebuild the simulator")
	}

	r := s.Step()
	if r.Command != "forward" || r.Position != (maze.Position{X: 1}) {
		t.Errorf("expected the program to restart, got %+v", r)
	}
}

func TestPlayImmediate(t *testing.T) {
	s, err := NewSession("(repeat (distance-to-end) (forward))", corridor(t), quiet)
	if err != nil {
		t.Fatal(err)
	}
	var commands []string
	outcome, err := s.Play(context.Background(), 0, func(r StepReport) {
		if r.Command != "" {
			commands = append(commands, r.Command)
		}
	})
	if err != nil || outcome != Completed {
		t.Fatalf("expected completion, got %s (%v)", outcome, err)
	}
	if len(commands) != 3 {
		t.Errorf("expected 3 callbacks with commands, got %v", commands)
	}
}

func TestPlayTicker(t *testing.T) {
	s, err := NewSession("(forward) (forward) (forward)", corridor(t), quiet)
	if err != nil {
		t.Fatal(err)
	}
	outcome, err := s.Play(context.Background(), time.Millisecond, nil)
	if err != nil || outcome != Completed {
		t.Errorf("expected completion, got %s (%v)", outcome, err)
	}
}

func TestPlayPauseAndResume(t *testing.T) {
	s, err := NewSession("(forward) (forward) (forward)", corridor(t), quiet)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	outcome, err := s.Play(ctx, time.Millisecond, func(r StepReport) {
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if outcome != Running || s.Steps() != 1 {
		t.Fatalf("expected to pause after one step, got %s after %d", outcome, s.Steps())
	}

	outcome, err = s.Play(context.Background(), 0, nil)
	if err != nil || outcome != Completed || s.Steps() != 3 {
		t.Errorf("expected resume to finish, got %s after %d (%v)", outcome, s.Steps(), err)
	}
}

func TestRun(t *testing.T) {
	rep, err := Run(context.Background(), "(repeat 3 (forward))", corridor(t), 0, quiet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Outcome != Completed || rep.Steps != 3 || rep.Level != "Corridor" {
		t.Errorf("unexpected report %+v", rep)
	}
	if len(rep.Path) != 4 {
		t.Errorf("expected 4 path entries, got %v", rep.Path)
	}
}

func TestRunStepLimit(t *testing.T) {
	src := "(function spin () (turn-left) (spin)) (spin)"
	rep, err := Run(context.Background(), src, corridor(t), 5, quiet)
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected step limit, got %v", err)
	}
	if rep.Steps != 5 || rep.Outcome != Running {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, "(forward)", corridor(t), 0, quiet)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestRunExecutorOptions(t *testing.T) {
	src := "(function spin () (turn-left) (spin)) (spin)"
	rep, err := Run(context.Background(), src, corridor(t), 0, quiet,
		WithExecutorOptions(executor.WithMaxCallDepth(4)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Outcome != Failed || !strings.Contains(rep.Failure, "Maximum call depth of 4") {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestRunBuiltinLevels(t *testing.T) {
	levels, err := maze.BuiltinLevels()
	if err != nil {
		t.Fatal(err)
	}
	src := `(function face-goal ()
  (if (not (closer front)) (turn-right) (face-goal)))
(repeat (distance-to-end) (face-goal) (forward))`

	for _, lvl := range levels {
		rep, err := Run(context.Background(), src, lvl, 0, quiet)
		if err != nil {
			t.Fatalf("%s: %v", lvl.Name, err)
		}
		if rep.Outcome != Completed {
			t.Errorf("%s: expected completion, got %s %q", lvl.Name, rep.Outcome, rep.Failure)
		}
	}
}
