package i18n

import "strings"

type Lang string

const (
	ZH Lang = "zh"
	EN Lang = "en"
)

func FromLanguageCode(code string) Lang {
	code = strings.ToLower(strings.TrimSpace(code))
	if strings.HasPrefix(code, "zh") {
		return ZH
	}
	return EN
}

func Parse(s string) Lang {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "zh":
		return ZH
	case "en":
		return EN
	default:
		return EN
	}
}
