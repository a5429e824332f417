// Package runner drives robot programs against maze levels: it parses a
// program once, then steps, resets, animates or runs it to the end.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lhaig/mazebot/internal/ast"
	"github.com/lhaig/mazebot/internal/diagnostic"
	"github.com/lhaig/mazebot/internal/executor"
	"github.com/lhaig/mazebot/internal/linter"
	"github.com/lhaig/mazebot/internal/maze"
	"github.com/lhaig/mazebot/internal/parser"
)

// DefaultMaxSteps bounds Run when the caller passes no limit
const DefaultMaxSteps = 10000

// ErrStepLimit is returned by Run when the program is still going after
// the allowed number of steps
var ErrStepLimit = errors.New("step limit reached")

// Outcome summarises where a session stands
type Outcome int

const (
	Running Outcome = iota
	Completed
	Failed
	OutOfProgram // the program ended without reaching the goal
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case OutOfProgram:
		return "out of program"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further step can change the outcome
func (o Outcome) Terminal() bool {
	return o != Running
}

// Result holds the output of a static check
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Program     *ast.Block
}

// Check runs parse + lint. A parse error is reported as the single
// error diagnostic and Program is nil.
func Check(source string) *Result {
	res := &Result{Diagnostics: diagnostic.New()}

	prog, err := parser.Parse(source)
	if err != nil {
		var perr *diagnostic.ProgramError
		if errors.As(err, &perr) {
			res.Diagnostics.Add(perr)
		} else {
			res.Diagnostics.Errorf(0, 0, "%s", err.Error())
		}
		return res
	}

	res.Program = prog
	res.Diagnostics.Merge(linter.Lint(prog))
	return res
}

// StepReport is the result of one Session.Step
type StepReport struct {
	executor.StepResult
	Outcome  Outcome
	Failure  string
	Position maze.Position
	Heading  maze.Heading
}

// Session pairs one parsed program with one level attempt. The executor
// is created on the first step; Reset rebuilds the simulator and executor
// from the same program and level.
type Session struct {
	program *ast.Block
	level   *maze.Level
	sim     *maze.Simulator
	exec    *executor.Executor
	outcome Outcome

	execOpts []executor.Option
	log      *slog.Logger
}

// Option configures a Session
type Option func(*Session)

// WithExecutorOptions passes options to every executor the session creates
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Session) {
		s.execOpts = append(s.execOpts, opts...)
	}
}

// WithLogger sets the logger for session events and executor tracing
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession parses source and prepares a fresh attempt at level
func NewSession(source string, level *maze.Level, opts ...Option) (*Session, error) {
	if level == nil {
		return nil, fmt.Errorf("runner: no level")
	}
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	s := &Session{
		program: prog,
		level:   level,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sim = level.NewSimulator()
	return s, nil
}

// Program returns the parsed program
func (s *Session) Program() *ast.Block { return s.program }

// Level returns the level being attempted
func (s *Session) Level() *maze.Level { return s.level }

// Simulator returns the current attempt's simulator
func (s *Session) Simulator() *maze.Simulator { return s.sim }

// Outcome returns the outcome after the last step
func (s *Session) Outcome() Outcome { return s.outcome }

// Steps returns the number of commands issued in this attempt
func (s *Session) Steps() int {
	if s.exec == nil {
		return 0
	}
	return s.exec.Steps()
}

// Step issues the next command. Once the outcome is terminal, Step
// returns the same outcome without touching the simulator.
func (s *Session) Step() StepReport {
	if s.exec == nil {
		opts := append([]executor.Option{executor.WithLogger(s.log)}, s.execOpts...)
		s.exec = executor.New(s.sim, s.program, opts...)
	}

	var r executor.StepResult
	if !s.outcome.Terminal() {
		r = s.exec.ExecuteStep()
		s.outcome = s.classify(r)
	}

	return StepReport{
		StepResult: r,
		Outcome:    s.outcome,
		Failure:    s.sim.Failure(),
		Position:   s.sim.Position(),
		Heading:    s.sim.Heading(),
	}
}

func (s *Session) classify(r executor.StepResult) Outcome {
	switch {
	case s.sim.Completed():
		return Completed
	case s.sim.Failed():
		return Failed
	case !r.HasMore:
		return OutOfProgram
	default:
		return Running
	}
}

// Reset discards the attempt and starts over from the level's start pose
func (s *Session) Reset() {
	s.log.Info("session reset",
		slog.String("level", s.level.Name),
		slog.Int("steps", s.Steps()),
		slog.String("outcome", s.outcome.String()))
	s.sim = s.level.NewSimulator()
	s.exec = nil
	s.outcome = Running
}

// Play steps once per interval, calling fn after each step, until the
// outcome is terminal or ctx is done. Cancelling ctx pauses the session;
// a later Play resumes where it stopped.
func (s *Session) Play(ctx context.Context, interval time.Duration, fn func(StepReport)) (Outcome, error) {
	if interval <= 0 {
		for !s.outcome.Terminal() {
			if err := ctx.Err(); err != nil {
				return s.outcome, err
			}
			s.report(fn, s.Step())
		}
		return s.outcome, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !s.outcome.Terminal() {
		select {
		case <-ctx.Done():
			return s.outcome, ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return s.outcome, err
			}
			s.report(fn, s.Step())
		}
	}
	return s.outcome, nil
}

func (s *Session) report(fn func(StepReport), r StepReport) {
	if fn != nil {
		fn(r)
	}
}

// Report summarises a headless run
type Report struct {
	Level   string
	Outcome Outcome
	Steps   int
	Failure string
	Path    []maze.Position
}

// Run executes source against level until a terminal outcome, at most
// maxSteps commands (DefaultMaxSteps when maxSteps <= 0).
func Run(ctx context.Context, source string, level *maze.Level, maxSteps int, opts ...Option) (*Report, error) {
	s, err := NewSession(source, level, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, maxSteps)
}

// Run steps the session until a terminal outcome or maxSteps commands
// have been issued in this attempt.
func (s *Session) Run(ctx context.Context, maxSteps int) (*Report, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	for !s.outcome.Terminal() {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}
		if s.Steps() >= maxSteps {
			return s.Summary(), fmt.Errorf("%w after %d commands", ErrStepLimit, maxSteps)
		}
		s.Step()
	}

	rep := s.Summary()
	s.log.Info("run finished",
		slog.String("level", rep.Level),
		slog.String("outcome", rep.Outcome.String()),
		slog.Int("steps", rep.Steps))
	return rep, nil
}

// Summary reports the current attempt
func (s *Session) Summary() *Report {
	return &Report{
		Level:   s.level.Name,
		Outcome: s.outcome,
		Steps:   s.Steps(),
		Failure: s.sim.Failure(),
		Path:    s.sim.Path(),
	}
}
