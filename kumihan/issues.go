package kumihan

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned by Parse when the input is empty.
var ErrNoContent = errors.New("no content")

// A Severity classifies how serious a ValidationIssue is.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "invalid severity"
}

// Issue codes. Syntax codes cover malformed keyword/attribute text,
// structure codes cover malformed block pairing.
const (
	CodeUnknownKeyword   = "unknown-keyword"
	CodeEmptyMarker      = "empty-marker"
	CodeMixedConnector   = "mixed-connector"
	CodeColorSyntax      = "color-syntax"
	CodeColorCaseMix     = "color-case-mix"
	CodeUnknownAttribute = "unknown-attribute"
	CodeCompoundSize     = "compound-size"
	CodeDuplicateSlot    = "duplicate-slot"
	CodeOrphanClose      = "orphan-close"
	CodeUnclosedBlock    = "unclosed-block"
	CodeDepthExceeded    = "depth-exceeded"
)

// A ValidationIssue records one recovered problem found while parsing.
// Issues never abort the parse; the offending spot also gets an error
// node in the tree so the rendered output shows where it happened.
type ValidationIssue struct {
	Line       int
	Severity   Severity
	Code       string
	Message    string
	Suggestion string
}

func (i ValidationIssue) String() string {
	if len(i.Suggestion) > 0 {
		return fmt.Sprintf("line %d: %s: %s: %s (%s)", i.Line, i.Severity, i.Code, i.Message, i.Suggestion)
	}
	return fmt.Sprintf("line %d: %s: %s: %s", i.Line, i.Severity, i.Code, i.Message)
}

// IsStructural reports whether the issue concerns block pairing rather
// than keyword or attribute syntax.
func (i ValidationIssue) IsStructural() bool {
	switch i.Code {
	case CodeOrphanClose, CodeUnclosedBlock, CodeDepthExceeded:
		return true
	}
	return false
}
