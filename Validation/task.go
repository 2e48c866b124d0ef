package Validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"Workspace/Models"
)

// ErrIncompleteTaskDefinition rejects task creation with missing required
// fields (title, target date, assignee).
var ErrIncompleteTaskDefinition = errors.New("task definition is incomplete")

// ErrInvalidUpdateShape rejects update payloads with out-of-range fields
// before the business rules run.
var ErrInvalidUpdateShape = errors.New("invalid update")

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New()
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// ValidateTaskDefinition checks required-field presence on a new task. The
// returned error wraps ErrIncompleteTaskDefinition with the translated
// per-field messages.
func ValidateTaskDefinition(task Models.Task) error {
	err := validate.Struct(task)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrIncompleteTaskDefinition, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Translate(trans))
	}
	return fmt.Errorf("%w: %s", ErrIncompleteTaskDefinition, strings.Join(messages, "; "))
}

// ValidateUpdateShape checks field-level constraints on an update payload
// (progress bounds) before the business rules in UpdateRules run.
func ValidateUpdateShape(update Models.EODUpdate) error {
	err := validate.Struct(update)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidUpdateShape, err)
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Translate(trans))
	}
	return fmt.Errorf("%w: %s", ErrInvalidUpdateShape, strings.Join(messages, "; "))
}
