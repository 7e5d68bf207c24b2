package models

import "strings"

// Language identifies one of the per-language template bodies.
type Language string

const (
	LanguageFR Language = "fr"
	LanguageEN Language = "en"
	LanguageDE Language = "de"
	LanguageIT Language = "it"
)

// DefaultLanguage is used whenever a language is unknown or absent.
const DefaultLanguage = LanguageFR

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{LanguageFR, LanguageEN, LanguageDE, LanguageIT}
}

// ParseLanguage normalizes a language code, falling back to DefaultLanguage.
func ParseLanguage(value string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(value))) {
	case LanguageFR:
		return LanguageFR
	case LanguageEN:
		return LanguageEN
	case LanguageDE:
		return LanguageDE
	case LanguageIT:
		return LanguageIT
	default:
		return DefaultLanguage
	}
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	switch l {
	case LanguageFR, LanguageEN, LanguageDE, LanguageIT:
		return true
	}
	return false
}

// Next cycles to the following language.
func (l Language) Next() Language {
	langs := Languages()
	for i, lang := range langs {
		if lang == l {
			return langs[(i+1)%len(langs)]
		}
	}
	return DefaultLanguage
}
