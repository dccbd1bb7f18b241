package payment

import "fmt"

// ValidationError reports an operation invoked in a state that cannot
// satisfy it, e.g. requesting a payment link before a payment exists.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ProductError reports a violated order-composition rule.
type ProductError struct {
	Reason string
}

func (e *ProductError) Error() string {
	return e.Reason
}

// ConnectionError reports either a non-success gateway response (Message
// and Code come from the parsed error body) or a transport failure (Err
// carries the network cause).
type ConnectionError struct {
	Message string
	Code    string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TemplateError reports a missing rendering template.
type TemplateError struct {
	Name string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}
