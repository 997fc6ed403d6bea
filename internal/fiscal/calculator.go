package fiscal

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
)

// Calculator executa os cálculos sobre uma tabela fixa.
// Não guarda estado mutável; pode ser usado por várias goroutines.
type Calculator struct {
	table Table
}

// NewCalculator usa a tabela informada ou a padrão quando t é nil.
func NewCalculator(t Table) *Calculator {
	if t == nil {
		t = defaultTable
	}
	return &Calculator{table: t.clone()}
}

func (c *Calculator) Lookup(annex Annex) ([]TaxBracket, error) {
	return c.table.Lookup(annex)
}

func (c *Calculator) Annexes() []Annex {
	return c.table.Annexes()
}

var defaultCalculator = NewCalculator(nil)

// CalculateDAS usa a tabela padrão.
func CalculateDAS(in DASInput) (DASResult, error) {
	return defaultCalculator.CalculateDAS(in)
}

// CalculateIRPJ não depende da tabela; exposto também no Calculator.
func CalculateIRPJ(in IRPJInput) (IRPJResult, error) {
	return defaultCalculator.CalculateIRPJ(in)
}

func CalculateMEI(in MEIInput) (MEIResult, error) {
	return defaultCalculator.CalculateMEI(in)
}

// roundMoney arredonda para centavos (meio para cima em valores positivos).
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
