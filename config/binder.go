package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// BindStage is the step of Bind that failed.
type BindStage string

const (
	StageDecode   BindStage = "decode"
	StageValidate BindStage = "validate"
)

// BindError wraps a decode or validation failure.
type BindError struct {
	Stage BindStage
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Binder turns merged configuration maps into structs. Fields are matched by
// their `config` tag and checked against their `validate` tag:
//
//	type ServerConfig struct {
//	    Addr    string        `config:"addr" validate:"required"`
//	    Timeout time.Duration `config:"timeout"`
//	}
//
// Scalars are converted weakly ("8080" to int), durations are parsed,
// comma-separated strings become slices and encoding.TextUnmarshaler
// fields decode from their text form.
type Binder struct {
	validate *validator.Validate
	hook     mapstructure.DecodeHookFunc
}

func NewBinder() *Binder {
	return &Binder{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		hook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	}
}

// Bind decodes source into target, a pointer to a struct, and validates it.
// On a validation failure target holds the decoded values.
func (b *Binder) Bind(source map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook:       b.hook,
	})
	if err != nil {
		return &BindError{Stage: StageDecode, Err: err}
	}
	if err := dec.Decode(source); err != nil {
		return &BindError{Stage: StageDecode, Err: err}
	}
	if err := b.validate.Struct(target); err != nil {
		return &BindError{Stage: StageValidate, Err: err}
	}
	return nil
}
