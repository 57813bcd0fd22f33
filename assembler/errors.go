package assembler

import "fmt"

// SyntaxError is a malformed source line. Assembly aborts on the first
// one; no output is produced.
type SyntaxError struct {
	Line    int
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// DuplicateLabelError is a label declared more than once.
type DuplicateLabelError struct {
	Name string
}

func (e DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label %q", e.Name)
}

// UndefinedSymbolError is a reference to a label that is never declared.
type UndefinedSymbolError struct {
	Name string
}

func (e UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol %q", e.Name)
}
