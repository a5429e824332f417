package diagnostic

import "fmt"

// Kind classifies a lex, parse or runtime failure
type Kind int

const (
	// Lex errors
	UnexpectedCharacter Kind = iota

	// Parse errors
	UnexpectedEOF
	UnclosedList
	UnexpectedToken
	TopLevelMustBeList
	EmptyExpression
	InvalidArgument
	UnknownCondition
	UnknownDirection
	NegativeNumber
	NumberOutOfRange
	MalformedFunction
	ReservedName
	UnknownExpression

	// Runtime errors
	UndefinedVariable
	UnknownFunction
	ArityMismatch
	NegativeRepeatCount
	RecursionLimit
	StepBudgetExceeded
)

var kindNames = map[Kind]string{
	UnexpectedCharacter: "UnexpectedCharacter",
	UnexpectedEOF:       "UnexpectedEOF",
	UnclosedList:        "UnclosedList",
	UnexpectedToken:     "UnexpectedToken",
	TopLevelMustBeList:  "TopLevelMustBeList",
	EmptyExpression:     "EmptyExpression",
	InvalidArgument:     "InvalidArgument",
	UnknownCondition:    "UnknownCondition",
	UnknownDirection:    "UnknownDirection",
	NegativeNumber:      "NegativeNumber",
	NumberOutOfRange:    "NumberOutOfRange",
	MalformedFunction:   "MalformedFunction",
	ReservedName:        "ReservedName",
	UnknownExpression:   "UnknownExpression",
	UndefinedVariable:   "UndefinedVariable",
	UnknownFunction:     "UnknownFunction",
	ArityMismatch:       "ArityMismatch",
	NegativeRepeatCount: "NegativeRepeatCount",
	RecursionLimit:      "RecursionLimit",
	StepBudgetExceeded:  "StepBudgetExceeded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Runtime reports whether the kind is raised while executing a program
// rather than while reading it.
func (k Kind) Runtime() bool {
	return k >= UndefinedVariable
}

// ProgramError is the single structured error produced by the lexer,
// the parser and the executor. Line is 1-based; 0 means unknown.
type ProgramError struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
	Hint    string
}

// Newf builds a ProgramError with a formatted message
func Newf(kind Kind, line, col int, format string, args ...interface{}) *ProgramError {
	return &ProgramError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}

// WithHint attaches a suggestion and returns the receiver
func (e *ProgramError) WithHint(hint string) *ProgramError {
	e.Hint = hint
	return e
}

func (e *ProgramError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d", e.Message, e.Line)
	}
	return e.Message
}

// Detail renders the error followed by its hint, if any
func (e *ProgramError) Detail() string {
	if e.Hint == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Error(), e.Hint)
}
