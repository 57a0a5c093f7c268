// Package errors provides structured error handling for funlit hosts.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindBinding indicates a binding precondition violation.
	KindBinding
	// KindParse indicates an attribute value could not be parsed.
	KindParse
	// KindInit indicates a component init routine failed.
	KindInit
	// KindRender indicates a render routine or renderer failure.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindBinding:
		return "binding"
	case KindParse:
		return "parse"
	case KindInit:
		return "init"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FunlitError represents a structured error raised on behalf of a host.
type FunlitError struct {
	// Op is the operation that failed (e.g., "core.BindAttribute").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Tag is the tag name of the host, if known.
	Tag string
	// Field is the bound field name, if applicable.
	Field string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FunlitError) Error() string {
	switch {
	case e.Tag != "" && e.Field != "":
		return fmt.Sprintf("%s [%s] <%s>.%s: %v", e.Op, e.Kind, e.Tag, e.Field, e.Err)
	case e.Tag != "":
		return fmt.Sprintf("%s [%s] <%s>: %v", e.Op, e.Kind, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FunlitError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.ConnectedCallback").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ParseError represents a failure to parse a serialized attribute value.
type ParseError struct {
	// Attribute is the attribute name being read.
	Attribute string
	// Raw is the serialized value that failed to parse.
	Raw string
	// Err is the parser's error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse attribute %s=%q: %v", e.Attribute, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError represents a failure during a host's render pass.
type RenderError struct {
	// Tag is the tag name of the host that failed to render.
	Tag string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in <%s> render: %v", e.Tag, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in <%s> render: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("unknown error in <%s> render", e.Tag)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by funlit.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FunlitError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render pass fails.
	HandleRenderError(err *RenderError)
}
