package i18n

import (
	"fmt"
	"strings"
)

// Lang is a supported interface language.
type Lang string

const (
	LangRu Lang = "ru"
	LangUz Lang = "uz"
)

var dict = map[Lang]map[string]string{
	LangRu: ru,
	LangUz: uz,
}

// HasLang reports whether the value names a supported language.
func HasLang(lang string) bool {
	return Lang(lang) == LangRu || Lang(lang) == LangUz
}

// Params are values substituted into {placeholders} of a template.
type Params map[string]interface{}

// T renders the string for a key in the given language, falling back to
// Russian for missing keys.
func T(lang Lang, key string, params ...Params) string {
	template, ok := dict[lang][key]
	if !ok {
		template = dict[LangRu][key]
	}
	if len(params) == 0 {
		return template
	}
	out := template
	for k, v := range params[0] {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return out
}
