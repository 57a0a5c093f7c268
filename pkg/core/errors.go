package core

import "errors"

var (
	// ErrNoHost is returned when a binding is requested without a host.
	ErrNoHost = errors.New("funlit: no host context")
	// ErrFieldType is returned when a field value or re-binding does not
	// match the field's bound type.
	ErrFieldType = errors.New("funlit: field type mismatch")
	// ErrUnsupportedAttribute is returned when an attribute binding has no
	// way to derive its value from the serialized attribute.
	ErrUnsupportedAttribute = errors.New("funlit: unsupported attribute binding")
	// ErrDuplicateTag is returned when a tag name is defined twice.
	ErrDuplicateTag = errors.New("funlit: tag already defined")
	// ErrInvalidTag is returned for tag names that are not valid custom
	// element names.
	ErrInvalidTag = errors.New("funlit: invalid tag name")
)
