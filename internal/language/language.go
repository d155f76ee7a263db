package language

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Supported lists the target languages speech can be translated into, in menu
// order. Both the translation endpoint and the TTS endpoint accept each code.
var supported = []string{
	"es", "en", "pt", "fr", "de", "it",
	"hi", "zh", "ja", "ko", "ru", "ar",
}

var supportedSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(supported))
	for _, code := range supported {
		set[code] = struct{}{}
	}
	return set
}()

// Option pairs a language code with its human-readable name.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Supported returns the target language options in menu order.
func Supported() []Option {
	options := make([]Option, 0, len(supported))
	for _, code := range supported {
		options = append(options, Option{Code: code, Name: Name(code)})
	}
	return options
}

// SupportedSorted returns the options sorted by display name.
func SupportedSorted() []Option {
	options := Supported()
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })
	return options
}

// IsSupported reports whether code names a supported target language. Full
// language names ("spanish") resolve too.
func IsSupported(code string) bool {
	_, ok := supportedSet[Normalize(code)]
	return ok
}

// Normalize maps a code or full language name to the canonical two-letter
// code, or returns "" when the input cannot be resolved.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if _, ok := supportedSet[code]; ok {
		return code
	}
	// Accept full names like "spanish" and regioned tags like "pt-BR".
	tag, err := language.Parse(code)
	if err == nil {
		if base, conf := tag.Base(); conf > language.No {
			if _, ok := supportedSet[base.String()]; ok {
				return base.String()
			}
		}
	}
	for _, candidate := range supported {
		if strings.EqualFold(Name(candidate), code) {
			return candidate
		}
	}
	return ""
}

// Name returns the English display name for a language code, falling back to
// the code itself when the tag cannot be parsed.
func Name(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
