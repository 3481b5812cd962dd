package gateway

import (
	"strings"

	"lexbrief-backend/models"
)

var supportedLanguages = []models.Language{
	{Code: "hi", Name: "Hindi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "ta", Name: "Tamil"},
	{Code: "te", Name: "Telugu"},
	{Code: "mr", Name: "Marathi"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "kn", Name: "Kannada"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "pa", Name: "Punjabi"},
	{Code: "or", Name: "Odia"},
	{Code: "ur", Name: "Urdu"},
	{Code: "as", Name: "Assamese"},
}

// Languages returns the supported translation targets
func Languages() []models.Language {
	out := make([]models.Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// LookupLanguage resolves a language by code or English name, case-insensitively
func LookupLanguage(codeOrName string) (models.Language, bool) {
	key := strings.ToLower(strings.TrimSpace(codeOrName))
	for _, lang := range supportedLanguages {
		if lang.Code == key || strings.ToLower(lang.Name) == key {
			return lang, true
		}
	}
	return models.Language{}, false
}
