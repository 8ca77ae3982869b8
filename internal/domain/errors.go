package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrMissingSKU marks a feed record without a group key; the record has
	// no identity, so it is skipped entirely rather than drafted.
	ErrMissingSKU = errors.New("record has no SKU")
)

// TransportError covers an unreachable or timed-out upstream API. Fatal to
// the current invocation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError covers a malformed upstream payload. Same severity as
// TransportError.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode: %v", e.Op, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// ItemError covers a single record, group, or variation failing validation or
// a downstream save. Recovered locally; the item is forced to draft and the
// run continues.
type ItemError struct {
	SKU string
	Err error
}

func (e *ItemError) Error() string { return fmt.Sprintf("sku %s: %v", e.SKU, e.Err) }
func (e *ItemError) Unwrap() error { return e.Err }

// IsFatal reports whether err must abort the enclosing sync invocation.
func IsFatal(err error) bool {
	var te *TransportError
	var de *DecodeError
	return errors.As(err, &te) || errors.As(err, &de)
}
