package structarg

import (
	"errors"
	"fmt"
)

// Category classifies a schema field. Exactly one category applies to any
// field, and it fully determines which argument builder handles it.
type Category int

const (
	CategoryCommand Category = iota
	CategoryBoolean
	CategoryContainer
	CategoryMapping
	CategoryLiteral
	CategoryEnumeration
	CategoryStandard
)

func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "command"
	case CategoryBoolean:
		return "boolean"
	case CategoryContainer:
		return "container"
	case CategoryMapping:
		return "mapping"
	case CategoryLiteral:
		return "literal"
	case CategoryEnumeration:
		return "enumeration"
	case CategoryStandard:
		return "standard"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ErrHelp is returned by Parse when help was requested and the parser is
// configured not to exit.
var ErrHelp = errors.New("help requested")

// ErrVersion is returned by Parse when the version was requested and the
// parser is configured not to exit.
var ErrVersion = errors.New("version requested")

// ArgumentError reports a command-line failure: unknown or malformed
// arguments, missing required ones, or model validation errors. It is the
// error type Parse returns when the parser is configured not to exit.
type ArgumentError struct {
	Prog    string
	Usage   string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: error: %s", e.Prog, e.Message)
}
