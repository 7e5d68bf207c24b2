package templates

import (
	"sort"
	"strings"

	"github.com/opencode-ai/templage/internal/models"
)

// ApplyTokens replaces every occurrence of each key in values with its value.
//
// Replacement is a single literal pass over text: when keys overlap at the
// same position the longest key wins, and inserted values are not scanned
// again. Placeholders without a value are left as they are.
func ApplyTokens(text string, values map[string]string) string {
	if text == "" {
		return ""
	}
	if len(values) == 0 {
		return text
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, values[key])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// SelectBody returns the template body for lang, or for the chosen variant
// when variantID is set. Unknown languages fall back to French.
func SelectBody(tmpl *models.Template, variantID string, lang models.Language) (string, error) {
	if tmpl == nil {
		return "", nil
	}
	if variantID == "" {
		return tmpl.Body(lang), nil
	}
	variant, ok := tmpl.Variant(variantID)
	if !ok {
		return "", ErrVariantNotFound
	}
	return variant.Body(lang), nil
}

// GenerateFinalText resolves the body for lang and fills it with values.
func GenerateFinalText(tmpl *models.Template, variantID string, lang models.Language, values map[string]string) (string, error) {
	body, err := SelectBody(tmpl, variantID, lang)
	if err != nil {
		return "", err
	}
	return ApplyTokens(body, values), nil
}
