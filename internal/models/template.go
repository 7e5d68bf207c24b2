package models

import (
	"fmt"
	"strings"
)

// TemplateType partitions templates into display buckets.
type TemplateType string

const (
	TemplateTypeEmail TemplateType = "email"
	TemplateTypeSMS   TemplateType = "sms"
	TemplateTypeOther TemplateType = "other"
)

// TemplateTypes lists the buckets in display order.
func TemplateTypes() []TemplateType {
	return []TemplateType{TemplateTypeEmail, TemplateTypeSMS, TemplateTypeOther}
}

// ParseTemplateType normalizes a template type.
func ParseTemplateType(value string) (TemplateType, error) {
	switch TemplateType(strings.ToLower(strings.TrimSpace(value))) {
	case TemplateTypeEmail:
		return TemplateTypeEmail, nil
	case TemplateTypeSMS:
		return TemplateTypeSMS, nil
	case TemplateTypeOther:
		return TemplateTypeOther, nil
	default:
		return "", fmt.Errorf("unknown template type %q", value)
	}
}

// Bodies holds the four per-language texts of a template or variant.
type Bodies struct {
	TextFR string `json:"text_fr" yaml:"text_fr"`
	TextEN string `json:"text_en" yaml:"text_en"`
	TextDE string `json:"text_de" yaml:"text_de"`
	TextIT string `json:"text_it" yaml:"text_it"`
}

// Body returns the text for lang, falling back to French for unknown languages.
func (b Bodies) Body(lang Language) string {
	switch lang {
	case LanguageEN:
		return b.TextEN
	case LanguageDE:
		return b.TextDE
	case LanguageIT:
		return b.TextIT
	default:
		return b.TextFR
	}
}

// SetBody replaces the text for lang.
func (b *Bodies) SetBody(lang Language, text string) {
	switch lang {
	case LanguageEN:
		b.TextEN = text
	case LanguageDE:
		b.TextDE = text
	case LanguageIT:
		b.TextIT = text
	default:
		b.TextFR = text
	}
}

// All returns every body in language order.
func (b Bodies) All() []string {
	return []string{b.TextFR, b.TextEN, b.TextDE, b.TextIT}
}

// Template is a multilingual message skeleton.
type Template struct {
	ID       string       `json:"id" yaml:"id,omitempty"`
	Title    string       `json:"title" yaml:"title"`
	Type     TemplateType `json:"type" yaml:"type"`
	Category string       `json:"category,omitempty" yaml:"category,omitempty"`
	Order    int          `json:"order" yaml:"order,omitempty"`
	Bodies   `yaml:",inline"`
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Variant is an alternate body set owned by a single template.
type Variant struct {
	ID     string `json:"id" yaml:"id,omitempty"`
	Name   string `json:"name" yaml:"name"`
	Bodies `yaml:",inline"`
}

// Variant returns the variant with the given id.
func (t *Template) Variant(id string) (*Variant, bool) {
	for i := range t.Variants {
		if t.Variants[i].ID == id {
			return &t.Variants[i], true
		}
	}
	return nil, false
}

// AllBodies returns the template bodies followed by each variant's bodies.
func (t *Template) AllBodies() []string {
	texts := t.Bodies.All()
	for _, variant := range t.Variants {
		texts = append(texts, variant.Bodies.All()...)
	}
	return texts
}

// Validate checks required fields and variant ownership rules.
func (t *Template) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(t.Title) == "" {
		validation.AddMessage("title", "title is required")
	}
	if _, err := ParseTemplateType(string(t.Type)); err != nil {
		validation.AddMessage("type", err.Error())
	}

	seen := make(map[string]struct{}, len(t.Variants))
	for i, variant := range t.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		if strings.TrimSpace(variant.Name) == "" {
			validation.AddMessage(field, "variant name is required")
		}
		if variant.ID == "" {
			continue
		}
		if _, dup := seen[variant.ID]; dup {
			validation.AddMessage(field, fmt.Sprintf("duplicate variant id %q", variant.ID))
		}
		seen[variant.ID] = struct{}{}
	}
	return validation.Err()
}
