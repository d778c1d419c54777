package manifest

import "fmt"

// ArgumentError reports a usage mistake: an unknown operation, or an input
// payload that does not match the selected operation's contract. The
// dispatcher renders usage help when it sees one.
type ArgumentError struct {
	Operation string
	Message   string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// Validate checks the selected entry against the presence of an input
// payload. It performs no IO, so a mismatch is reported before any payload
// file is touched. A nil op means the operation does not exist.
func Validate(op *Operation, hasInput bool) error {
	switch {
	case op == nil:
		return &ArgumentError{Message: "operation does not exist"}
	case !op.RequiresInput && hasInput:
		return &ArgumentError{
			Operation: op.Name,
			Message:   fmt.Sprintf("the %s operation takes no input, but one was supplied", op.Name),
		}
	case op.RequiresInput && !hasInput:
		return &ArgumentError{
			Operation: op.Name,
			Message:   fmt.Sprintf("the %s operation requires an input %s; supply one with --in", op.Name, op.InputType),
		}
	}
	return nil
}
