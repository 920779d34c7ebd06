package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/tmx"
)

// FilterOptions are the user-facing options of a filter run.
type FilterOptions struct {
	Input     string   `validate:"omitempty,safepath"`
	Output    string   `validate:"omitempty,safepath"`
	Langs     []string `validate:"required,min=1,dive,tmxlang"`
	Sessions  []string `validate:"omitempty,dive,session"`
	Ledger    string   `validate:"omitempty,safepath"`
	NoVote    bool
	Plaintext bool
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the TMX tags registered:
// tmxlang (a supported language code), session (a supported session number)
// and safepath (see ValidatePath).
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		must(v.RegisterValidation("tmxlang", func(fl validator.FieldLevel) bool {
			return tmx.IsLanguage(fl.Field().String())
		}))
		must(v.RegisterValidation("session", func(fl validator.FieldLevel) bool {
			return tmx.IsSession(fl.Field().String())
		}))
		must(v.RegisterValidation("safepath", func(fl validator.FieldLevel) bool {
			p := fl.Field().String()
			return p == "-" || ValidatePath(p) == nil
		}))
		validate = v
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateOptions checks opts and reports the first problem as a
// ValidationError naming the offending option.
func ValidateOptions(opts FilterOptions) error {
	err := Validator().Struct(opts)
	if err == nil {
		if err := ValidateDistinct(opts.Input, opts.Output); err != nil {
			return apperrors.NewValidation("output", err.Error())
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	return &apperrors.ValidationError{
		Field:   fieldName(e),
		Value:   fmt.Sprint(e.Value()),
		Message: formatValidationError(e),
	}
}

// fieldName maps a struct field such as "Langs[2]" to its flag name.
func fieldName(e validator.FieldError) string {
	name := e.StructField()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "min":
		return "at least one code is required"
	case "tmxlang":
		return fmt.Sprintf("not a valid language choice: %v (valid: %s)", e.Value(), strings.Join(tmx.Languages, ","))
	case "session":
		return fmt.Sprintf("not a valid session: %v (valid: %s)", e.Value(), strings.Join(tmx.Sessions, ","))
	case "safepath":
		return fmt.Sprintf("invalid path %q", e.Value())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
