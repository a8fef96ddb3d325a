package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransientFetch    = errors.New("transient fetch failure")
	ErrMalformedFragment = errors.New("malformed fragment")
	ErrMissingTitle      = errors.New("missing book title")
	ErrCorruptDocument   = errors.New("corrupt document")
	ErrConflictingRemap  = errors.New("conflicting remap")
)

// TransientFetchError is a retryable network or HTTP failure. The unit that
// needed the page is skipped; the run goes on.
type TransientFetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransientFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransientFetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransientFetch}
	}
	return []error{ErrTransientFetch, e.Err}
}

// MalformedFragmentError describes a fragment the merger dropped.
type MalformedFragmentError struct {
	Order  int
	Verse  string
	Reason string
}

func (e *MalformedFragmentError) Error() string {
	if e.Verse == "" {
		return fmt.Sprintf("fragment %d: %s", e.Order, e.Reason)
	}
	return fmt.Sprintf("fragment %d (verse %q): %s", e.Order, e.Verse, e.Reason)
}

func (e *MalformedFragmentError) Unwrap() error { return ErrMalformedFragment }

type MissingTitleError struct {
	Book string
}

func (e *MissingTitleError) Error() string {
	return fmt.Sprintf("book %s: no title to create it with", e.Book)
}

func (e *MissingTitleError) Unwrap() error { return ErrMissingTitle }

// CorruptDocumentError means the persisted document could not be read back.
// It is never recovered from silently.
type CorruptDocumentError struct {
	Path string
	Err  error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt document %s: %v", e.Path, e.Err)
}

func (e *CorruptDocumentError) Unwrap() []error {
	return []error{ErrCorruptDocument, e.Err}
}

type ConflictingRemapError struct {
	Book    string
	Target  string
	Sources []string
}

func (e *ConflictingRemapError) Error() string {
	return fmt.Sprintf("book %s: chapters %s all map to %s", e.Book, strings.Join(e.Sources, ", "), e.Target)
}

func (e *ConflictingRemapError) Unwrap() error { return ErrConflictingRemap }
