package registry

import (
	"errors"
	"fmt"
)

// Kind classifies registry failures.
type Kind int

const (
	KindInvalidID Kind = iota
	KindReservedCoreID
	KindProviderAlreadyExists
	KindGameAlreadyExists
	KindNotFound
	KindFrozen
)

// Sentinel errors for errors.Is matching against *Error values.
var (
	ErrInvalidID             = errors.New("invalid id")
	ErrReservedCoreID        = errors.New("reserved identifier \"core\"")
	ErrProviderAlreadyExists = errors.New("duplicate provider id")
	ErrGameAlreadyExists     = errors.New("duplicate game id")
	ErrNotFound              = errors.New("id not found")
	ErrFrozen                = errors.New("registry is frozen")
)

var sentinels = map[Kind]error{
	KindInvalidID:             ErrInvalidID,
	KindReservedCoreID:        ErrReservedCoreID,
	KindProviderAlreadyExists: ErrProviderAlreadyExists,
	KindGameAlreadyExists:     ErrGameAlreadyExists,
	KindNotFound:              ErrNotFound,
	KindFrozen:                ErrFrozen,
}

// Error is returned by every registry and context operation.
type Error struct {
	Kind Kind
	ID   string
	msg  string
}

func newError(kind Kind, id, msg string) *Error {
	return &Error{Kind: kind, ID: id, msg: msg}
}

// NotFoundError builds a KindNotFound error. Callers outside the package use
// it to report deferred lookups (e.g. no active game) in the same taxonomy.
func NotFoundError(id, detail string) *Error {
	if detail == "" {
		detail = fmt.Sprintf("cannot find id %s", id)
	}
	return newError(KindNotFound, id, detail)
}

func (e *Error) Error() string {
	return e.msg
}

// Is lets errors.Is match an *Error against the package sentinels.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}
