package startup

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Stage tells which step of an extension's run failed.
type Stage string

const (
	StageConstruct Stage = "construct"
	StageInvoke    Stage = "invoke"
)

// Error is reported to observers when an extension could not be constructed
// or its lifecycle action failed. It never escapes Run.
type Error struct {
	Stage       Stage
	Capability  string
	Implementer string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("startup %s %s for %s: %v", e.Stage, e.Capability, e.Implementer, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var errNilExtension = errors.New("factory returned nil")

// guard runs fn, turning a panic into an error with the panic site's stack.
func guard(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if re, ok := rec.(error); ok {
				err = errors.Wrap(re, "panic")
				return
			}
			err = errors.Newf("panic: %v", rec)
		}
	}()
	return fn()
}
