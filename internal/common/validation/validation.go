package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Rule pairs a validator tag with the client-facing message emitted when
// the tag fails.
type Rule struct {
	Tag     string
	Message string
}

// Field holds the ordered rules declared for one entity attribute.
type Field struct {
	Name  string
	Value string
	Rules []Rule
}

func Required(message string) Rule {
	return Rule{Tag: "required", Message: message}
}

func Email(message string) Rule {
	return Rule{Tag: "email", Message: message}
}

// Error is the normalized validation failure: one message per violated
// rule, in the order the rules were declared.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

func NewError(messages ...string) *Error {
	return &Error{Messages: messages}
}

func AsError(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Check evaluates every rule of every field independently, so a field
// violating several rules contributes one message per rule.
func Check(fields ...Field) error {
	var messages []string

	for _, field := range fields {
		for _, rule := range field.Rules {
			if err := validate.Var(field.Value, rule.Tag); err != nil {
				messages = append(messages, rule.Message)
			}
		}
	}

	if len(messages) > 0 {
		return &Error{Messages: messages}
	}
	return nil
}
