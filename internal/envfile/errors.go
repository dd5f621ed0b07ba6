package envfile

import "fmt"

// Messages carried by FormatError.
const (
	msgInvalidName        = "invalid character in variable name"
	msgUnset              = "unable to unset an environment variable"
	msgMissingEquals      = "missing = in the environment variable declaration"
	msgSpaceAfterName     = "whitespace characters are not supported after the variable name"
	msgSpaceBeforeValue   = "whitespace characters are not supported before the value"
	msgMissingQuote       = "missing quote to end the value"
	msgUnquotedWhitespace = "a value containing spaces must be surrounded by quotes"
)

// FormatError reports a grammar violation at a 1-based line of a file.
type FormatError struct {
	Message string
	Path    string
	Line    int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s in %q at line %d", e.Message, e.Path, e.Line)
}

// PathError reports an environment file that could not be read.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("unable to read the %q environment file", e.Path)
}

func (e *PathError) Unwrap() error { return e.Err }
