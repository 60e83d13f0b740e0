package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

type Lang string

const (
	English Lang = "en"
	Chinese Lang = "zh"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Chinese})

// Parse returns the language for an explicit "lang" value, or false when the
// value is not supported.
func Parse(value string) (Lang, bool) {
	switch Lang(value) {
	case English, Chinese:
		return Lang(value), true
	}
	return "", false
}

// Negotiate picks a language: the explicit lang parameter first, then the
// Accept-Language header, then English.
func Negotiate(param, acceptLanguage string) Lang {
	if lang, ok := Parse(param); ok {
		return lang
	}
	if acceptLanguage == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	if index == 1 {
		return Chinese
	}
	return English
}

// T returns the string for key, falling back to English and then to the key.
func T(lang Lang, key string) string {
	if s, ok := messages[lang][key]; ok {
		return s
	}
	if s, ok := messages[English][key]; ok {
		return s
	}
	return key
}

// Failure formats the banner shown when a submission fails.
func Failure(lang Lang, debugID, message string) string {
	if lang == Chinese {
		return fmt.Sprintf("失败（debugId=%s）：%s", debugID, message)
	}
	return fmt.Sprintf("Failed (debugId=%s): %s", debugID, message)
}

// Translator binds a language for templates.
type Translator struct {
	Lang Lang
}

func (t Translator) T(key string) string {
	return T(t.Lang, key)
}

// Other is the language the toggle switches to.
func (t Translator) Other() Lang {
	if t.Lang == Chinese {
		return English
	}
	return Chinese
}
