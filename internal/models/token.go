package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/opencode-ai/templage/internal/placeholder"
)

// InputType governs which form control is generated for a token.
type InputType string

const (
	InputTypeText   InputType = "text"
	InputTypeNumber InputType = "number"
	InputTypeDate   InputType = "date"
)

// ParseInputType normalizes an input type; empty means text.
func ParseInputType(value string) (InputType, error) {
	switch InputType(strings.ToLower(strings.TrimSpace(value))) {
	case "", InputTypeText:
		return InputTypeText, nil
	case InputTypeNumber:
		return InputTypeNumber, nil
	case InputTypeDate:
		return InputTypeDate, nil
	default:
		return "", fmt.Errorf("unknown input type %q", value)
	}
}

// DateLayout is the format accepted by date fields.
const DateLayout = "2006-01-02"

// ErrInvalidValue is matched by every value rejected by CheckValue.
var ErrInvalidValue = errors.New("invalid field value")

// CheckValue reports whether value fits the input type. Blank values pass;
// whether a blank field may be left empty is decided elsewhere.
func (t InputType) CheckValue(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	switch t {
	case InputTypeNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
		}
	case InputTypeDate:
		if _, err := time.Parse(DateLayout, value); err != nil {
			return fmt.Errorf("%w: %q is not a date (YYYY-MM-DD)", ErrInvalidValue, value)
		}
	}
	return nil
}

// AcceptsRune reports whether r can appear in a value of this type.
func (t InputType) AcceptsRune(r rune) bool {
	switch t {
	case InputTypeNumber:
		return (r >= '0' && r <= '9') || strings.ContainsRune(".-+eE", r)
	case InputTypeDate:
		return (r >= '0' && r <= '9') || r == '-'
	default:
		return true
	}
}

// Token is the registered metadata for one placeholder key.
type Token struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id" yaml:"id,omitempty"`

	// Token is the placeholder key including braces, e.g. "{customer_name}".
	Token string `json:"token" yaml:"token"`

	// Label is the human-readable field name.
	Label string `json:"label" yaml:"label,omitempty"`

	// InputType selects the form control.
	InputType InputType `json:"input_type,omitempty" yaml:"input_type,omitempty"`

	// Default is substituted when the field is left blank. Nil means no default.
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`
}

// DefaultValue returns the default and whether one is set.
func (t *Token) DefaultValue() (string, bool) {
	if t == nil || t.Default == nil {
		return "", false
	}
	return *t.Default, true
}

// SetDefault stores value as the default; an empty value clears it.
func (t *Token) SetDefault(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		t.Default = nil
		return
	}
	t.Default = &value
}

// DisplayLabel returns the label, or the raw token when no label is set.
func (t *Token) DisplayLabel() string {
	if label := strings.TrimSpace(t.Label); label != "" {
		return label
	}
	return t.Token
}

// Validate checks the token syntax, the input type and that the default fits it.
func (t *Token) Validate() error {
	validation := &ValidationErrors{}
	token := strings.TrimSpace(t.Token)
	if token == "" {
		validation.AddMessage("token", "token is required")
	} else if !placeholder.IsToken(token) {
		validation.AddMessage("token", "token must follow the {my_token} format")
	}
	inputType, err := ParseInputType(string(t.InputType))
	if err != nil {
		validation.AddMessage("input_type", err.Error())
	} else if def, ok := t.DefaultValue(); ok {
		if err := inputType.CheckValue(def); err != nil {
			validation.AddMessage("default", err.Error())
		}
	}
	return validation.Err()
}
