package ingredient

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ukemeny/internal/category"
)

// Ingredient is a shoppable item. It belongs to exactly one category.
type Ingredient struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Category category.Category `json:"category"`
}

// NormalizeName trims the name and capitalises it: first letter upper case,
// the rest lower case ("  kjøttDEIG " becomes "Kjøttdeig").
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(first)) + strings.ToLower(trimmed[size:])
}
