package fiscal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// MEIAnnualLimit é o limite de faturamento anual do MEI.
	MEIAnnualLimit = decimal.NewFromInt(81_000)

	meiINSSRate = decimal.RequireFromString("0.05")
	meiICMS     = decimal.NewFromInt(1)
	meiISS      = decimal.NewFromInt(5)
)

type MEIInput struct {
	Activity              string
	MinimumWage           decimal.Decimal
	TrailingAnnualRevenue decimal.Decimal // opcional; zero ignora o limite
	Period                Competence
}

type MEIResult struct {
	INSS     decimal.Decimal `json:"inss"`
	ICMS     decimal.Decimal `json:"icms"`
	ISS      decimal.Decimal `json:"iss"`
	TotalTax decimal.Decimal `json:"total_tax"`
	DueDate  time.Time       `json:"due_date"`
	Period   Competence      `json:"period"`
}

// CalculateMEI calcula o DAS-MEI de valor fixo: INSS de 5% do salário
// mínimo, mais R$ 1,00 de ICMS (comércio/indústria) e/ou R$ 5,00 de ISS (serviços).
func (c *Calculator) CalculateMEI(in MEIInput) (MEIResult, error) {
	if !in.MinimumWage.IsPositive() {
		return MEIResult{}, fmt.Errorf("%w: minimum wage must be positive", ErrInvalidRevenue)
	}
	if in.TrailingAnnualRevenue.IsNegative() {
		return MEIResult{}, fmt.Errorf("%w: annual revenue must not be negative", ErrInvalidRevenue)
	}
	if in.TrailingAnnualRevenue.GreaterThan(MEIAnnualLimit) {
		return MEIResult{}, fmt.Errorf("%w: %s exceeds %s", ErrMEILimitExceeded, in.TrailingAnnualRevenue, MEIAnnualLimit)
	}
	if err := validCompetence(in.Period); err != nil {
		return MEIResult{}, err
	}

	res := MEIResult{
		INSS:    roundMoney(in.MinimumWage.Mul(meiINSSRate)),
		ICMS:    decimal.Zero,
		ISS:     decimal.Zero,
		DueDate: in.Period.DASDueDate(),
		Period:  in.Period,
	}
	services := IsServiceActivity(in.Activity)
	commerce := isCommerceActivity(in.Activity)
	if commerce || !services {
		res.ICMS = meiICMS
	}
	if services {
		res.ISS = meiISS
	}
	res.TotalTax = res.INSS.Add(res.ICMS).Add(res.ISS)
	return res, nil
}
