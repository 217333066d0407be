package fault

import (
	"fmt"
	"strings"
)

// Kind classifies a fatal pipeline error. Kinds are usable as targets for errors.Is.
type Kind int

const (
	FileAccess        Kind = iota + 1 //input missing/unreadable or filesystem operation failed
	Parse                             //malformed label or range file
	MissingSourceFile                 //labelled frame image absent during reorganization
	Archive                           //corrupt, unreadable or unsafe archive
	Config                            //unusable configuration
)

func (k Kind) String() string {
	switch k {
	case FileAccess:
		return "file access error"
	case Parse:
		return "parse error"
	case MissingSourceFile:
		return "missing source file"
	case Archive:
		return "archive error"
	case Config:
		return "configuration error"
	default:
		return "error"
	}
}

func (k Kind) Error() string {
	return k.String()
}

type Error struct {
	Kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	kind, isKind := target.(Kind)
	return isKind && kind == e.Kind
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, message: message, cause: cause}
}

func Newf(kind Kind, cause error, format string, values ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, values...), cause)
}
