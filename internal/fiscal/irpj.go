package fiscal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	presumptionServices = decimal.NewFromInt(32)
	presumptionDefault  = decimal.NewFromInt(8)
	irpjRate            = decimal.RequireFromString("0.15")
	surtaxRate          = decimal.RequireFromString("0.10")
	surtaxThreshold     = decimal.NewFromInt(20_000)
)

type IRPJInput struct {
	GrossRevenue decimal.Decimal
	Deductions   decimal.Decimal
	MainActivity string
	Period       Competence
}

type IRPJResult struct {
	TotalTax              decimal.Decimal `json:"total_tax"`
	BaseAmount            decimal.Decimal `json:"base_amount"`
	NormalTax             decimal.Decimal `json:"normal_tax"`
	Surtax                decimal.Decimal `json:"surtax"`
	PresumptionPercentage decimal.Decimal `json:"presumption_percentage"`
	DueDate               time.Time       `json:"due_date"`
	Period                Competence      `json:"period"`
}

// PresumptionPercentage: 32% para serviços, 8% para comércio/indústria.
func PresumptionPercentage(activity string) decimal.Decimal {
	if IsServiceActivity(activity) {
		return presumptionServices
	}
	return presumptionDefault
}

// CalculateIRPJ calcula o IRPJ no Lucro Presumido: 15% sobre a base
// presumida mais adicional de 10% sobre o que exceder R$ 20.000,00.
func (c *Calculator) CalculateIRPJ(in IRPJInput) (IRPJResult, error) {
	if !in.GrossRevenue.IsPositive() {
		return IRPJResult{}, fmt.Errorf("%w: gross revenue must be positive", ErrInvalidRevenue)
	}
	if in.Deductions.IsNegative() {
		return IRPJResult{}, fmt.Errorf("%w: deductions must not be negative", ErrInvalidDeduction)
	}
	if in.Deductions.GreaterThan(in.GrossRevenue) {
		return IRPJResult{}, fmt.Errorf("%w: deductions %s exceed gross revenue %s", ErrInvalidDeduction, in.Deductions, in.GrossRevenue)
	}
	if err := validCompetence(in.Period); err != nil {
		return IRPJResult{}, err
	}

	pct := PresumptionPercentage(in.MainActivity)
	base := roundMoney(in.GrossRevenue.Sub(in.Deductions).Mul(pct).Div(hundred))
	normal := roundMoney(base.Mul(irpjRate))
	surtax := roundMoney(decimal.Max(decimal.Zero, base.Sub(surtaxThreshold).Mul(surtaxRate)))

	return IRPJResult{
		TotalTax:              normal.Add(surtax),
		BaseAmount:            base,
		NormalTax:             normal,
		Surtax:                surtax,
		PresumptionPercentage: pct,
		DueDate:               in.Period.IRPJDueDate(),
		Period:                in.Period,
	}, nil
}
