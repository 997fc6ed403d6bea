package fiscal

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Palavras-chave (sem acento) que caracterizam prestação de serviços
// para fins de presunção do Lucro Presumido.
var serviceKeywords = []string{
	"servico",
	"consultoria",
	"assessoria",
	"prestacao",
	"intermediacao",
	"representacao",
	"administracao",
	"locacao",
}

// normalizeActivity deixa o texto minúsculo e sem diacríticos ("Serviços" -> "servicos").
func normalizeActivity(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// IsServiceActivity informa se a atividade principal é de serviços.
func IsServiceActivity(activity string) bool {
	a := normalizeActivity(activity)
	if a == "" {
		return false
	}
	for _, kw := range serviceKeywords {
		if strings.Contains(a, kw) {
			return true
		}
	}
	return false
}

// isCommerceActivity cobre comércio e indústria (ICMS no MEI).
func isCommerceActivity(activity string) bool {
	a := normalizeActivity(activity)
	return strings.Contains(a, "comercio") || strings.Contains(a, "industria")
}
