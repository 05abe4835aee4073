package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingParams indicates a git tool was run without a URL or root.
var ErrMissingParams = errors.New("missing url or root")

// FatalError is an unrecoverable failure of a git operation. It aborts
// the enclosing task and is reported with the offending path and,
// where one exists, the exact remediation flag.
type FatalError struct {
	Op   string // operation being performed
	Path string // offending path or URL
	Hint string // remediation flag or option, may be empty
	Err  error  // underlying cause
}

func (e *FatalError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, "; see %s", e.Hint)
	}
	return b.String()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
