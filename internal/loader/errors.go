package loader

import "fmt"

// ParseError reports an artifact that could not be read or decoded.
type ParseError struct {
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a meta block that failed validation.
type ValidationError struct {
	// Node is the unique id of the model, column owner or exposure
	Node string
	// Field is the dotted meta path, e.g. "columns.amount.measures.total.type"
	Field string
	// Rule is the failed validation rule, e.g. "oneof"
	Rule  string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid meta %s (%v): failed %q", e.Node, e.Field, e.Value, e.Rule)
}
