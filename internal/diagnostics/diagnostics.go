package diagnostics

import (
	"fmt"

	"github.com/funvibe/matchck/internal/token"
)

// ErrorCode is a stable, numbered identifier for a diagnostic.
type ErrorCode string

// Match analysis codes. Codes are stable: tooling and tests key on them.
const (
	// ErrM001: scrutinee or pattern type is in an error state; analysis
	// is skipped to avoid cascading noise.
	ErrM001 ErrorCode = "M001"
	// ErrM002: match too complex to analyze (recursion budget exceeded).
	ErrM002 ErrorCode = "M002"
	// ErrM003: match is not exhaustive.
	ErrM003 ErrorCode = "M003"
	// ErrM004: unreachable match arm.
	ErrM004 ErrorCode = "M004"
	// ErrM005: internal consistency violation in the checker itself.
	ErrM005 ErrorCode = "M005"
	// ErrF001: malformed fixture file.
	ErrF001 ErrorCode = "F001"
	// ErrF002: malformed pattern notation in a fixture.
	ErrF002 ErrorCode = "F002"
)

var messages = map[ErrorCode]string{
	ErrM001: "type error in match scrutinee or pattern",
	ErrM002: "match too complex to analyze",
	ErrM003: "match is not exhaustive",
	ErrM004: "unreachable match arm",
	ErrM005: "internal error in match analysis",
	ErrF001: "invalid fixture",
	ErrF002: "invalid pattern",
}

// DiagnosticError is a positioned, coded error.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
}

func (e *DiagnosticError) Error() string {
	if e.Token.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Token.Line, e.Token.Column, e.Message)
}

// NewError builds a DiagnosticError. An empty detail falls back to the
// code's standard message; otherwise the detail is appended to it.
func NewError(code ErrorCode, tok token.Token, detail string) *DiagnosticError {
	msg := messages[code]
	if detail != "" {
		if msg == "" {
			msg = detail
		} else {
			msg = msg + ": " + detail
		}
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}
