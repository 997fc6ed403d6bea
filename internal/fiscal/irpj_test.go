package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateIRPJ_Examples(t *testing.T) {
	tests := []struct {
		name       string
		gross      string
		deductions string
		activity   string
		pct        string
		base       string
		normal     string
		surtax     string
		total      string
	}{
		{"comércio abaixo do adicional", "100000", "0", "comércio", "8", "8000", "1200", "0", "1200"},
		{"serviços com adicional", "300000", "0", "serviços", "32", "96000", "14400", "7600", "22000"},
		{"indústria com deduções", "500000", "100000", "industria", "8", "32000", "4800", "1200", "6000"},
		{"texto livre de consultoria", "50000", "0", "Consultoria em TI", "32", "16000", "2400", "0", "2400"},
		{"atividade vazia usa 8%", "250000", "0", "", "8", "20000", "3000", "0", "3000"},
		{"centavos arredondados", "1000.33", "0", "servicos", "32", "320.11", "48.02", "0", "48.02"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := CalculateIRPJ(IRPJInput{
				GrossRevenue: d(tc.gross),
				Deductions:   d(tc.deductions),
				MainActivity: tc.activity,
				Period:       NewCompetence(2024, time.March),
			})
			require.NoError(t, err)
			assert.True(t, res.PresumptionPercentage.Equal(d(tc.pct)), "pct %s", res.PresumptionPercentage)
			assert.True(t, res.BaseAmount.Equal(d(tc.base)), "base %s", res.BaseAmount)
			assert.True(t, res.NormalTax.Equal(d(tc.normal)), "normal %s", res.NormalTax)
			assert.True(t, res.Surtax.Equal(d(tc.surtax)), "surtax %s", res.Surtax)
			assert.True(t, res.TotalTax.Equal(d(tc.total)), "total %s", res.TotalTax)
			assert.True(t, res.TotalTax.Equal(res.NormalTax.Add(res.Surtax)))
		})
	}
}

func TestCalculateIRPJ_Validation(t *testing.T) {
	_, err := CalculateIRPJ(IRPJInput{GrossRevenue: d("0"), Deductions: d("-5"), MainActivity: "serviços"})
	require.ErrorIs(t, err, ErrInvalidRevenue)

	_, err = CalculateIRPJ(IRPJInput{GrossRevenue: d("-10"), Period: jan2024})
	require.ErrorIs(t, err, ErrInvalidRevenue)

	_, err = CalculateIRPJ(IRPJInput{GrossRevenue: d("10"), Deductions: d("-0.01"), Period: jan2024})
	require.ErrorIs(t, err, ErrInvalidDeduction)

	_, err = CalculateIRPJ(IRPJInput{GrossRevenue: d("100"), Deductions: d("200"), MainActivity: "comércio", Period: jan2024})
	require.ErrorIs(t, err, ErrInvalidDeduction)

	// dedução igual à receita zera a base, sem imposto negativo
	res, err := CalculateIRPJ(IRPJInput{GrossRevenue: d("100"), Deductions: d("100"), Period: jan2024})
	require.NoError(t, err)
	assert.True(t, res.BaseAmount.IsZero(), "base %s", res.BaseAmount)
	assert.True(t, res.TotalTax.IsZero(), "total %s", res.TotalTax)

	_, err = CalculateIRPJ(IRPJInput{GrossRevenue: d("10")})
	require.ErrorIs(t, err, ErrInvalidCompetence)
}

func TestCalculateIRPJ_DueDate(t *testing.T) {
	cases := []struct {
		period Competence
		want   time.Time
	}{
		{NewCompetence(2024, time.January), time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{NewCompetence(2023, time.January), time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{NewCompetence(2024, time.March), time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)},
		{NewCompetence(2024, time.December), time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		res, err := CalculateIRPJ(IRPJInput{GrossRevenue: d("1000"), Period: tc.period})
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.DueDate, "competence %s", tc.period)
	}
}

func TestIsServiceActivity(t *testing.T) {
	cases := map[string]bool{
		"serviços":                    true,
		"SERVIÇOS":                    true,
		"servicos":                    true,
		"Prestação de serviços":       true,
		"Assessoria contábil":         true,
		"comércio":                    false,
		"comercio varejista":          false,
		"indústria":                   false,
		"":                            false,
		"Locação de bens móveis":      true,
		"fabricação de móveis":        false,
		"comércio e serviços gerais":  true,
		"  Intermediação de negócios": true,
	}
	for in, want := range cases {
		if got := IsServiceActivity(in); got != want {
			t.Fatalf("IsServiceActivity(%q) = %v; want %v", in, got, want)
		}
	}
}
