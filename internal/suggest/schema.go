// Package suggest defines the coaching-suggestion contract and an LLM-backed
// provider that produces validated structured suggestions.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

// ErrEmptyMessage is returned when a request carries no message text.
var ErrEmptyMessage = errors.New("suggest: message is empty")

// Provider turns a free-text message plus task context into suggestions.
type Provider interface {
	Suggest(ctx context.Context, req Request) (*Response, error)
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// PendingTask is the slice of a task the provider gets to see.
type PendingTask struct {
	Title        string        `json:"title"`
	Priority     task.Priority `json:"priority"`
	Horizon      task.Horizon  `json:"horizon"`
	IsRolledOver bool          `json:"isRolledOver"`
}

// Context summarises the user's current situation.
type Context struct {
	PendingTasks            []PendingTask `json:"pendingTasks"`
	YesterdayCompletedCount int           `json:"yesterdayCompletedCount"`
	Streak                  int           `json:"streak"`
}

// Request is a single coaching request.
type Request struct {
	Message string  `json:"message"`
	Context Context `json:"context"`
}

// SuggestedTask is one recommended task. EstimatedTime is in minutes.
type SuggestedTask struct {
	Title         string        `json:"title" validate:"required,nonempty,max=200"`
	Priority      task.Priority `json:"priority" validate:"required,oneof=low medium high critical"`
	EstimatedTime int           `json:"estimatedTime" validate:"gte=0,lte=480"`
	Reason        string        `json:"reason" validate:"max=500"`
}

// Response is the structured provider output.
type Response struct {
	Reflection     string          `json:"reflection" validate:"required,nonempty"`
	SuggestedTasks []SuggestedTask `json:"suggestedTasks" validate:"max=10,dive"`
	FocusAdvice    string          `json:"focusAdvice"`
}

// ValidationError provides structured error information for schema validation failures
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationResult contains the result of schema validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks the response against the schema rules.
func (r *Response) Validate() ValidationResult {
	return validateStruct(r)
}

// Validate checks a single suggested task.
func (t *SuggestedTask) Validate() ValidationResult {
	return validateStruct(t)
}

func validateStruct(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationResult{Errors: []ValidationError{{Tag: "invalid", Message: err.Error()}}}
	}

	var out []ValidationError
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: formatValidationError(fe),
		})
	}
	return ValidationResult{Errors: out}
}

func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "nonempty":
		return fmt.Sprintf("%s cannot be empty or whitespace", err.Field())
	case "max":
		if err.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("%s must have at most %s items", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", err.Field(), err.Tag())
	}
}

// ErrorSummary returns a single string summarizing all validation errors
func (r ValidationResult) ErrorSummary() string {
	if r.Valid {
		return ""
	}
	var parts []string
	for _, e := range r.Errors {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
