// Package mods holds the value types exchanged between the core, mod providers
// and game providers. It has no dependencies outside the standard library.
package mods

import (
	"fmt"
)

// ResultKind discriminates the states of a download Result.
type ResultKind int

const (
	KindInProgress ResultKind = iota
	KindCompleted
	KindFailed
	KindCancelled
)

func (k ResultKind) String() string {
	switch k {
	case KindInProgress:
		return "in_progress"
	case KindCompleted:
		return "completed"
	case KindFailed:
		return "failed"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the status of a single mod download.
// Only the field matching Kind is meaningful: Percent for InProgress,
// Path for Completed and Reason for Failed.
type Result struct {
	Kind    ResultKind `json:"kind"`
	Percent uint8      `json:"percent,omitempty"`
	Path    string     `json:"path,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// InProgress returns a progress result. Values above 100 are clamped.
func InProgress(percent uint8) Result {
	if percent > 100 {
		percent = 100
	}
	return Result{Kind: KindInProgress, Percent: percent}
}

// Completed returns a terminal result pointing at the downloaded file.
func Completed(path string) Result {
	return Result{Kind: KindCompleted, Path: path}
}

// Failed returns a terminal result carrying a human-readable reason.
func Failed(reason string) Result {
	return Result{Kind: KindFailed, Reason: reason}
}

// Cancelled returns the terminal cancelled result.
func Cancelled() Result {
	return Result{Kind: KindCancelled}
}

// IsTerminal reports whether no further status follows this one.
func (r Result) IsTerminal() bool {
	return r.Kind != KindInProgress
}

func (r Result) String() string {
	switch r.Kind {
	case KindInProgress:
		return fmt.Sprintf("InProgress(%d)", r.Percent)
	case KindCompleted:
		return fmt.Sprintf("Completed(%s)", r.Path)
	case KindFailed:
		return fmt.Sprintf("Failed(%s)", r.Reason)
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
