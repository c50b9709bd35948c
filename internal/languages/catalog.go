package languages

import (
	"strings"

	"golang.org/x/text/language"
)

// displayNames maps ISO 639-1 codes to human-readable English names for the
// languages YouTube commonly captions.
var displayNames = map[string]string{
	"ar": "Arabic",
	"bg": "Bulgarian",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sq": "Albanian",
	"sr": "Serbian",
	"sv": "Swedish",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// DisplayName resolves a language code to its display name. Regional variants
// like "pt-BR" fall back to the base language's name; unmapped codes default
// to the uppercased code.
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	if tag, err := language.Parse(code); err == nil {
		if base, confidence := tag.Base(); confidence >= language.High {
			if name, ok := displayNames[base.String()]; ok {
				return name
			}
		}
	}
	return strings.ToUpper(code)
}

// Canonicalize normalizes a requested language code to its BCP-47 form, so
// "FR" and "fr_FR" match the codes the provider reports. Unparseable input is
// lowercased as-is.
func Canonicalize(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return tag.String()
}
