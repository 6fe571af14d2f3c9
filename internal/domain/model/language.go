package model

import "strings"

type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCpp        Language = "cpp"
	LangC          Language = "c"
	LangGo         Language = "go"
)

var supportedLanguages = []Language{LangJavaScript, LangPython, LangJava, LangCpp, LangC, LangGo}

// ParseLanguage normalises an identifier and reports whether it is accepted
// for contest submissions.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, supported := range supportedLanguages {
		if l == supported {
			return l, true
		}
	}
	return l, false
}

func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}
