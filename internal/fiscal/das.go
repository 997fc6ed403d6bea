package fiscal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DASInput struct {
	Trailing12MonthRevenue decimal.Decimal // RBT12
	GrossMonthlyRevenue    decimal.Decimal
	Annex                  Annex
	Period                 Competence
}

type DASResult struct {
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	DueDate       time.Time       `json:"due_date"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	BracketUsed   TaxBracket      `json:"bracket_used"`
	BracketIndex  int             `json:"bracket_index"` // 1-based
	Annex         Annex           `json:"annex"`
	Period        Competence      `json:"period"`
}

// CalculateDAS calcula o DAS mensal do Simples Nacional.
//
// Alíquota efetiva = (RBT12 × alíquota nominal − parcela a deduzir) / RBT12.
// O valor do imposto usa a alíquota sem arredondamento; só o resultado
// final é arredondado (imposto em 2 casas, alíquota em 4).
func (c *Calculator) CalculateDAS(in DASInput) (DASResult, error) {
	rbt12 := in.Trailing12MonthRevenue
	if !rbt12.IsPositive() {
		return DASResult{}, fmt.Errorf("%w: trailing-12-month revenue must be positive", ErrInvalidRevenue)
	}
	if rbt12.GreaterThan(SimplesCeiling) {
		return DASResult{}, fmt.Errorf("%w: trailing-12-month revenue %s exceeds %s", ErrRevenueLimitExceeded, rbt12, SimplesCeiling)
	}
	if !in.GrossMonthlyRevenue.IsPositive() {
		return DASResult{}, fmt.Errorf("%w: monthly revenue must be positive", ErrInvalidRevenue)
	}
	brackets, err := c.table.Lookup(in.Annex)
	if err != nil {
		return DASResult{}, err
	}
	if err := validCompetence(in.Period); err != nil {
		return DASResult{}, err
	}

	idx := -1
	for i, b := range brackets {
		if rbt12.LessThanOrEqual(b.UpperBound) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return DASResult{}, fmt.Errorf("%w: no bracket covers %s in annex %s", ErrRevenueLimitExceeded, rbt12, in.Annex)
	}
	b := brackets[idx]

	rate := rbt12.Mul(b.NominalRate).Div(hundred).Sub(b.Deduction).Div(rbt12).Mul(hundred)
	rate = decimal.Max(decimal.Zero, rate)
	tax := in.GrossMonthlyRevenue.Mul(rate).Div(hundred)

	return DASResult{
		TaxAmount:     roundMoney(tax),
		EffectiveRate: rate.Round(4),
		DueDate:       in.Period.DASDueDate(),
		BaseAmount:    in.GrossMonthlyRevenue,
		BracketUsed:   b,
		BracketIndex:  idx + 1,
		Annex:         in.Annex,
		Period:        in.Period,
	}, nil
}
