package model

import "strings"

// LanguageCode は案内文の言語
type LanguageCode string

const (
	LanguageEnglish LanguageCode = "en"
	LanguageYoruba  LanguageCode = "yo"
	LanguagePidgin  LanguageCode = "pcm"
)

// LanguageNameMap は言語コードから表示名へのマッピング
var LanguageNameMap = map[LanguageCode]string{
	LanguageEnglish: "English",
	LanguageYoruba:  "Yorùbá",
	LanguagePidgin:  "Naija Pidgin",
}

// ParseLanguage は言語コードを解析する（未対応のコードは英語にフォールバック）
func ParseLanguage(code string) LanguageCode {
	lang := LanguageCode(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := LanguageNameMap[lang]; ok {
		return lang
	}
	return LanguageEnglish
}

// IsSupported は対応言語かどうかを判定する
func (l LanguageCode) IsSupported() bool {
	_, ok := LanguageNameMap[l]
	return ok
}

// GetAllLanguages は対応言語の一覧を取得する
func GetAllLanguages() []LanguageCode {
	return []LanguageCode{LanguageEnglish, LanguageYoruba, LanguagePidgin}
}
