package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies where in compilation a failure happened.
type ErrorKind int

const (
	// KindLoad covers reading and parsing the flow file itself.
	KindLoad ErrorKind = iota + 1
	// KindResolution covers loading a unit's rule payload.
	KindResolution
	// KindBuild covers structural invariants of the assembled graph.
	KindBuild
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindResolution:
		return "resolution"
	case KindBuild:
		return "build"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error codes, grouped by kind (E1xx load, E2xx resolution, E3xx build).
const (
	ErrCodeFlowUnreadable  = "E101" // flow file missing or unreadable
	ErrCodeFlowMalformed   = "E102" // malformed structure or missing required field
	ErrCodeDuplicateUnit   = "E103" // duplicate unit id in flow file
	ErrCodeFlowFormat      = "E104" // unsupported flow file extension
	ErrCodeUnknownKind     = "E105" // kind is not table, expression or function
	ErrCodeRuleUnreadable  = "E201" // rule file missing or unreadable
	ErrCodeRuleMalformed   = "E202" // malformed table content
	ErrCodeNoExpressionKey = "E203" // expression unit without inputs
	ErrCodeSourceEncoding  = "E204" // function source is not UTF-8
	ErrCodeDanglingEdge    = "E301" // edge endpoint names no node
	ErrCodeDuplicateNode   = "E302" // two nodes share an id
	ErrCodeReservedID      = "E303" // unit id collides with request/response
	ErrCodeDuplicateEdge   = "E304" // edge declared more than once (strict mode)
	ErrCodeMissingPayload  = "E305" // unit reached the builder without a payload
)

// Error is the structured failure returned by every compilation stage.
type Error struct {
	Kind    ErrorKind
	Code    string
	Path    string // file involved, if any
	UnitID  string // decision unit involved, if any
	Line    int    // 1-based, 0 when unknown
	Column  int
	Message string
	Err     error // underlying cause (optional)
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s error %s", e.Kind, e.Code)
	if e.UnitID != "" {
		fmt.Fprintf(&b, " (unit %q)", e.UnitID)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// CodeOf returns the code of the *Error in err's chain, or "" if none.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// LoadError builds a KindLoad error for the flow file at path.
func LoadError(code, path, message string, err error) *Error {
	return &Error{Kind: KindLoad, Code: code, Path: path, Message: message, Err: err}
}

// ResolutionError builds a KindResolution error for a unit's rule payload.
func ResolutionError(code, unitID, path, message string, err error) *Error {
	return &Error{Kind: KindResolution, Code: code, UnitID: unitID, Path: path, Message: message, Err: err}
}

// BuildError builds a KindBuild error for a structural invariant violation.
func BuildError(code, unitID, message string) *Error {
	return &Error{Kind: KindBuild, Code: code, UnitID: unitID, Message: message}
}
