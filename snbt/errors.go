package snbt

import "fmt"

// SyntaxError reports a parse failure and where in the input it happened.
// Offset is a byte offset into the source text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("snbt: %s at offset %d", e.Msg, e.Offset)
}
