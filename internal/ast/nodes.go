package ast

// Node is the base interface for all AST nodes.
// Nodes are immutable once the parser returns them; all execution state
// lives in the executor.
type Node interface {
	Pos() int // source line, 0 if unknown
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// CommandKind identifies a primitive robot action
type CommandKind int

const (
	Forward CommandKind = iota
	TurnLeft
	TurnRight
)

// String returns the AST name of the command
func (k CommandKind) String() string {
	switch k {
	case Forward:
		return "forward"
	case TurnLeft:
		return "turn_left"
	case TurnRight:
		return "turn_right"
	default:
		return "unknown"
	}
}

// Instruction returns the simulator instruction the command maps to
func (k CommandKind) Instruction() string {
	switch k {
	case Forward:
		return "forward"
	case TurnLeft:
		return "turn left"
	case TurnRight:
		return "turn right"
	default:
		return ""
	}
}

// Direction is a heading relative to the robot
type Direction int

const (
	Front Direction = iota
	Right
	Back
	Left
)

func (d Direction) String() string {
	switch d {
	case Front:
		return "front"
	case Right:
		return "right"
	case Back:
		return "back"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// DirectionNames lists the accepted relative direction names
var DirectionNames = []string{"front", "back", "left", "right"}

// LookupDirection maps a direction name to a Direction
func LookupDirection(name string) (Direction, bool) {
	switch name {
	case "front":
		return Front, true
	case "right":
		return Right, true
	case "back":
		return Back, true
	case "left":
		return Left, true
	default:
		return 0, false
	}
}

// ConditionKind distinguishes the two sensor queries an if can make
type ConditionKind int

const (
	// SensorCondition asks whether the adjacent cell is impassable
	SensorCondition ConditionKind = iota
	// CloserCondition asks whether a step would shorten the path to the goal
	CloserCondition
)

func (k ConditionKind) String() string {
	switch k {
	case SensorCondition:
		return "sensor"
	case CloserCondition:
		return "closer"
	default:
		return "unknown"
	}
}

// Condition is the predicate of an If
type Condition struct {
	Kind      ConditionKind
	Negated   bool
	Direction Direction
	Line      int
}

func (c *Condition) Pos() int { return c.Line }

// --- Statements ---

// Block is an ordered sequence of statements; a program is a Block
type Block struct {
	Statements []Statement
	Line       int
}

func (b *Block) Pos() int { return b.Line }
func (b *Block) stmtNode() {}

// Command is a primitive robot action
type Command struct {
	Kind CommandKind
	Line int
}

func (c *Command) Pos() int  { return c.Line }
func (c *Command) stmtNode() {}

// Repeat runs Body Count times. Count is evaluated once per loop entry.
type Repeat struct {
	Count Expression
	Body  []Statement
	Line  int
}

func (r *Repeat) Pos() int  { return r.Line }
func (r *Repeat) stmtNode() {}

// If runs Body when Condition holds at the moment it is reached
type If struct {
	Condition *Condition
	Body      []Statement
	Line      int
}

func (i *If) Pos() int  { return i.Line }
func (i *If) stmtNode() {}

// Set binds Name in the innermost live scope
type Set struct {
	Name  string
	Value Expression
	Line  int
}

func (s *Set) Pos() int  { return s.Line }
func (s *Set) stmtNode() {}

// Function declares a procedure. Its body sees only its own parameters
// and the global scope, never the caller's locals.
type Function struct {
	Name   string
	Params []string
	Body   []Statement
	Line   int
}

func (f *Function) Pos() int  { return f.Line }
func (f *Function) stmtNode() {}

// Call invokes a function by name. Implicit is set when the source used
// the function name as the list head instead of the call keyword.
// The target is resolved at execution time.
type Call struct {
	Name     string
	Args     []Expression
	Implicit bool
	Line     int
}

func (c *Call) Pos() int  { return c.Line }
func (c *Call) stmtNode() {}

// --- Expressions ---

// NumberLiteral is a non-negative integer
type NumberLiteral struct {
	Value int
	Line  int
}

func (n *NumberLiteral) Pos() int  { return n.Line }
func (n *NumberLiteral) exprNode() {}

// VariableReference reads a variable from the scope stack
type VariableReference struct {
	Name string
	Line int
}

func (v *VariableReference) Pos() int  { return v.Line }
func (v *VariableReference) exprNode() {}

// DistanceToEnd reads the current shortest-path distance to the goal
type DistanceToEnd struct {
	Line int
}

func (d *DistanceToEnd) Pos() int  { return d.Line }
func (d *DistanceToEnd) exprNode() {}
