package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FatorRThreshold: a partir de 28% de folha sobre receita, atividades do
// anexo V passam a ser tributadas pelo anexo III.
var FatorRThreshold = decimal.RequireFromString("0.28")

// FatorR = folha de salários dos últimos 12 meses / RBT12, em 4 casas.
// Devolve zero quando a receita não é positiva.
func FatorR(payroll12, revenue12 decimal.Decimal) decimal.Decimal {
	if !revenue12.IsPositive() || payroll12.IsNegative() {
		return decimal.Zero
	}
	return payroll12.Div(revenue12).Round(4)
}

// ResolveAnnexByFatorR aplica o Fator R (LC 123/2006, art. 18, §5-J e §5-M).
// Somente o anexo V é afetado. A comparação usa a razão sem arredondamento.
func ResolveAnnexByFatorR(annex Annex, payroll12, revenue12 decimal.Decimal) Annex {
	if annex != AnnexV || !revenue12.IsPositive() {
		return annex
	}
	if payroll12.Div(revenue12).GreaterThanOrEqual(FatorRThreshold) {
		return AnnexIII
	}
	return annex
}

// ValidatePayroll rejeita folha de salários negativa.
func ValidatePayroll(payroll12 decimal.Decimal) error {
	if payroll12.IsNegative() {
		return fmt.Errorf("%w: payroll must not be negative", ErrInvalidPayroll)
	}
	return nil
}
