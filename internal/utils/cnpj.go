package utils

import "unicode"

// remove qualquer coisa que não seja dígito
func SanitizeCNPJ(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ espera o CNPJ já sanitizado: 14 dígitos, não todos iguais,
// com os dois dígitos verificadores corretos (módulo 11).
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	allEq := true
	for i := 0; i < 14; i++ {
		if cnpj[i] < '0' || cnpj[i] > '9' {
			return false
		}
		if cnpj[i] != cnpj[0] {
			allEq = false
		}
	}
	if allEq {
		return false
	}
	return checkDigit(cnpj[:12], cnpjWeights1) == cnpj[12] &&
		checkDigit(cnpj[:13], cnpjWeights2) == cnpj[13]
}

func checkDigit(digits string, weights []int) byte {
	sum := 0
	for i := range weights {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

// FormatCNPJ: 11222333000181 -> 11.222.333/0001-81
func FormatCNPJ(cnpj string) string {
	if len(cnpj) != 14 {
		return cnpj
	}
	return cnpj[0:2] + "." + cnpj[2:5] + "." + cnpj[5:8] + "/" + cnpj[8:12] + "-" + cnpj[12:14]
}
