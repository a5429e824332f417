// Package executor runs a parsed robot program one primitive command at
// a time. Execution state lives on an explicit frame stack so control can
// return to the host after every command and resume later exactly where
// it stopped.
package executor

import (
	"log/slog"
	"sort"

	"github.com/lhaig/mazebot/internal/ast"
	"github.com/lhaig/mazebot/internal/diagnostic"
	"github.com/lhaig/mazebot/internal/maze"
)

const (
	// DefaultMaxCallDepth bounds nested function calls
	DefaultMaxCallDepth = 256
	// DefaultStepBudget bounds the nodes one ExecuteStep may visit
	// without reaching a command
	DefaultStepBudget = 1 << 20
)

// Simulator is what the executor needs from the maze it drives
type Simulator interface {
	Execute(instruction string) bool
	Sensor(dir maze.Relative) bool
	IsCloser(dir maze.Relative) bool
	DistanceToGoal() int
	Fail(message string)
	Done() bool
}

// StepResult describes one ExecuteStep call. Command is empty when no
// command was issued.
type StepResult struct {
	HasMore bool
	Command string
	Line    int
}

// frame is one entry of the execution stack. A frame with a nil node is a
// block frame walking body; otherwise it executes node.
type frame struct {
	node     ast.Statement
	body     []ast.Statement
	index    int  // next statement of a block, or completed iterations of a repeat
	count    int  // evaluated repeat count
	counted  bool // count has been evaluated for this loop entry
	envDepth int  // scope depth to restore when the frame pops; -1 for none
	function string
}

// Executor walks an AST against a Simulator. It is single-use: after a
// reset, build a new Executor (the AST may be shared).
type Executor struct {
	sim       Simulator
	frames    []*frame
	functions map[string]*ast.Function
	env       *environment
	callDepth int
	steps     int

	maxCallDepth int
	stepBudget   int
	log          *slog.Logger
}

// Option configures an Executor
type Option func(*Executor)

// WithMaxCallDepth sets the recursion ceiling
func WithMaxCallDepth(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxCallDepth = n
		}
	}
}

// WithStepBudget sets how many nodes one step may visit without issuing a command
func WithStepBudget(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.stepBudget = n
		}
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an executor for program driving sim. Top-level functions
// are collected up front so calls may precede their definitions.
func New(sim Simulator, program *ast.Block, opts ...Option) *Executor {
	e := &Executor{
		sim:          sim,
		functions:    make(map[string]*ast.Function),
		env:          newEnvironment(),
		maxCallDepth: DefaultMaxCallDepth,
		stepBudget:   DefaultStepBudget,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if program != nil {
		e.frames = []*frame{{body: program.Statements, envDepth: -1}}
		for _, stmt := range program.Statements {
			if fn, ok := stmt.(*ast.Function); ok {
				e.functions[fn.Name] = fn
			}
		}
	}
	return e
}

// ExecuteStep runs the program up to and including its next command and
// applies that command to the simulator. HasMore is false once the
// program is exhausted or the simulator reached a terminal state.
func (e *Executor) ExecuteStep() StepResult {
	if e.sim.Done() {
		return StepResult{}
	}

	cmd, err := e.nextCommand()
	if err != nil {
		e.fail(err)
		return StepResult{}
	}
	if cmd == nil {
		return StepResult{}
	}

	instruction := cmd.Kind.Instruction()
	e.sim.Execute(instruction)
	e.steps++

	return StepResult{
		HasMore: !e.sim.Done(),
		Command: instruction,
		Line:    cmd.Line,
	}
}

// HasMore reports whether further steps may issue commands
func (e *Executor) HasMore() bool {
	return len(e.frames) > 0 && !e.sim.Done()
}

// Steps returns how many commands have been issued
func (e *Executor) Steps() int {
	return e.steps
}

// CallDepth returns the number of active function calls
func (e *Executor) CallDepth() int {
	return e.callDepth
}

// Lookup resolves a variable the way the running program would see it
func (e *Executor) Lookup(name string) (int, bool) {
	return e.env.lookup(name)
}

func (e *Executor) fail(err *diagnostic.ProgramError) {
	e.log.Debug("runtime error",
		slog.String("kind", err.Kind.String()),
		slog.String("message", err.Message),
		slog.Int("line", err.Line))
	e.sim.Fail(err.Detail())
	e.frames = nil
}

func (e *Executor) push(f *frame) {
	e.frames = append(e.frames, f)
}

func (e *Executor) pushBlock(body []ast.Statement, envDepth int, function string) {
	e.push(&frame{body: body, envDepth: envDepth, function: function})
}

// pop removes the top frame, restoring the scope depth recorded on it
func (e *Executor) pop() {
	top := e.frames[len(e.frames)-1]
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]

	if top.envDepth >= 0 {
		e.env.popTo(top.envDepth)
		e.callDepth--
		e.log.Debug("return",
			slog.String("function", top.function),
			slog.Int("depth", e.callDepth))
	}
}

// nextCommand advances the frame stack until it pops a Command, the
// stack empties, or an error occurs.
func (e *Executor) nextCommand() (*ast.Command, *diagnostic.ProgramError) {
	visits := 0
	for len(e.frames) > 0 {
		visits++
		if visits > e.stepBudget {
			return nil, diagnostic.Newf(diagnostic.StepBudgetExceeded, e.currentLine(), 0,
				"Program ran %d operations without moving the robot", e.stepBudget)
		}

		top := e.frames[len(e.frames)-1]

		if top.node == nil {
			if top.index >= len(top.body) {
				e.pop()
				continue
			}
			stmt := top.body[top.index]
			top.index++
			e.push(&frame{node: stmt, envDepth: -1})
			continue
		}

		switch n := top.node.(type) {
		case *ast.Command:
			e.pop()
			return n, nil

		case *ast.Repeat:
			if !top.counted {
				count, err := e.evaluate(n.Count)
				if err != nil {
					return nil, err
				}
				if count < 0 {
					return nil, diagnostic.Newf(diagnostic.NegativeRepeatCount, n.Line, 0,
						"repeat count must be non-negative, got %d", count)
				}
				top.count, top.counted = count, true
				e.log.Debug("enter repeat", slog.Int("count", count), slog.Int("line", n.Line))
			}
			if top.index < top.count {
				top.index++
				e.pushBlock(n.Body, -1, "")
				continue
			}
			e.pop()

		case *ast.If:
			e.pop()
			if e.test(n.Condition) {
				e.pushBlock(n.Body, -1, "")
			}

		case *ast.Set:
			e.pop()
			value, err := e.evaluate(n.Value)
			if err != nil {
				return nil, err
			}
			e.env.assign(n.Name, value)

		case *ast.Function:
			e.pop()
			e.functions[n.Name] = n

		case *ast.Call:
			e.pop()
			if err := e.call(n); err != nil {
				return nil, err
			}

		case *ast.Block:
			e.pop()
			e.pushBlock(n.Statements, -1, "")

		default:
			e.pop()
		}
	}
	return nil, nil
}

// call binds arguments, evaluated in the caller's scope, to a fresh
// scope and pushes the function body.
func (e *Executor) call(n *ast.Call) *diagnostic.ProgramError {
	fn, ok := e.functions[n.Name]
	if !ok {
		return diagnostic.Newf(diagnostic.UnknownFunction, n.Line, 0,
			"Unknown function '%s'", n.Name).
			WithHint(diagnostic.Suggest(n.Name, e.functionNames()))
	}

	args := make([]int, 0, len(n.Args))
	for _, arg := range n.Args {
		v, err := e.evaluate(arg)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	if len(args) != len(fn.Params) {
		return diagnostic.Newf(diagnostic.ArityMismatch, n.Line, 0,
			"Function '%s' expected %d argument(s) but received %d", fn.Name, len(fn.Params), len(args))
	}
	if e.callDepth >= e.maxCallDepth {
		return diagnostic.Newf(diagnostic.RecursionLimit, n.Line, 0,
			"Maximum call depth of %d exceeded calling '%s'", e.maxCallDepth, fn.Name)
	}

	scope := NewScope()
	for i, param := range fn.Params {
		scope.Define(param, args[i])
	}

	depth := e.env.depth()
	e.env.push(scope)
	e.callDepth++
	e.pushBlock(fn.Body, depth, fn.Name)

	e.log.Debug("call function",
		slog.String("function", fn.Name),
		slog.Int("argument-count", len(args)),
		slog.Int("depth", e.callDepth))
	return nil
}

func (e *Executor) evaluate(expr ast.Expression) (int, *diagnostic.ProgramError) {
	switch x := expr.(type) {
	case *ast.NumberLiteral:
		return x.Value, nil
	case *ast.VariableReference:
		v, ok := e.env.lookup(x.Name)
		if !ok {
			return 0, diagnostic.Newf(diagnostic.UndefinedVariable, x.Line, 0,
				"Undefined variable '%s'", x.Name).
				WithHint(diagnostic.Suggest(x.Name, e.env.visible()))
		}
		return v, nil
	case *ast.DistanceToEnd:
		return e.sim.DistanceToGoal(), nil
	}
	line := 0
	if expr != nil {
		line = expr.Pos()
	}
	return 0, diagnostic.Newf(diagnostic.UnknownExpression, line, 0, "Unsupported expression")
}

// test evaluates a condition against the simulator's current state
func (e *Executor) test(c *ast.Condition) bool {
	dir := relative(c.Direction)
	var result bool
	switch c.Kind {
	case ast.SensorCondition:
		result = e.sim.Sensor(dir)
	case ast.CloserCondition:
		result = e.sim.IsCloser(dir)
	}
	if c.Negated {
		return !result
	}
	return result
}

func relative(d ast.Direction) maze.Relative {
	switch d {
	case ast.Right:
		return maze.RightSide
	case ast.Back:
		return maze.Back
	case ast.Left:
		return maze.LeftSide
	default:
		return maze.Front
	}
}

func (e *Executor) functionNames() []string {
	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// currentLine returns the line of the innermost frame that has one
func (e *Executor) currentLine() int {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if n := e.frames[i].node; n != nil {
			return n.Pos()
		}
	}
	return 0
}
