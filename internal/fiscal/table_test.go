package fiscal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_Valid(t *testing.T) {
	require.NoError(t, DefaultTable().Validate())
	assert.Equal(t, []Annex{AnnexI, AnnexII, AnnexIII, AnnexIV, AnnexV}, DefaultTable().Annexes())
}

func TestLookup(t *testing.T) {
	bs, err := Lookup(AnnexI)
	require.NoError(t, err)
	require.Len(t, bs, 6)
	assert.True(t, bs[0].UpperBound.Equal(d("180000")))
	assert.True(t, bs[1].NominalRate.Equal(d("7.3")))
	assert.True(t, bs[1].Deduction.Equal(d("5940")))

	_, err = Lookup("VI")
	require.ErrorIs(t, err, ErrUnknownAnnex)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	bs, err := Lookup(AnnexII)
	require.NoError(t, err)
	bs[0].NominalRate = d("99")

	again, err := Lookup(AnnexII)
	require.NoError(t, err)
	assert.True(t, again[0].NominalRate.Equal(d("4.5")))
}

func TestParseAnnex(t *testing.T) {
	for in, want := range map[string]Annex{"I": AnnexI, "iii": AnnexIII, "Anexo IV": AnnexIV, " v ": AnnexV} {
		got, err := ParseAnnex(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseAnnex("VII")
	require.ErrorIs(t, err, ErrUnknownAnnex)
}

// anexos II a V com uma faixa só, para completar as tabelas de teste
const otherAnnexes = `
  II:
    - {upper_bound: 4800000, nominal_rate: 4.5}
  III:
    - {upper_bound: 4800000, nominal_rate: 6}
  IV:
    - {upper_bound: 4800000, nominal_rate: 4.5}
  V:
    - {upper_bound: 4800000, nominal_rate: 15.5}
`

const customTable = `
annexes:
  Anexo I:
    - {upper_bound: 180000, nominal_rate: 4.00, deduction: 0}
    - {upper_bound: "4800000", nominal_rate: "7.30", deduction: "5940"}
` + otherAnnexes

func TestLoadTable(t *testing.T) {
	tbl, err := LoadTable(strings.NewReader(customTable))
	require.NoError(t, err)
	assert.Equal(t, []Annex{AnnexI, AnnexII, AnnexIII, AnnexIV, AnnexV}, tbl.Annexes())

	// "Anexo I" no arquivo é consultado como I
	calc := NewCalculator(tbl)
	res, err := calc.CalculateDAS(DASInput{Trailing12MonthRevenue: d("300000"), GrossMonthlyRevenue: d("25000"), Annex: NormalizeAnnex("Anexo I"), Period: jan2024})
	require.NoError(t, err)
	assert.True(t, res.EffectiveRate.Equal(d("5.32")))

	bs, err := calc.Lookup(AnnexIII)
	require.NoError(t, err)
	require.Len(t, bs, 1)

	_, err = calc.Lookup("VI")
	require.ErrorIs(t, err, ErrUnknownAnnex)
}

func TestLoadTable_Rejects(t *testing.T) {
	cases := map[string]string{
		"não crescente": `
annexes:
  I:
    - {upper_bound: 360000, nominal_rate: 4}
    - {upper_bound: 180000, nominal_rate: 5}
` + otherAnnexes,
		"não cobre o teto": `
annexes:
  I:
    - {upper_bound: 180000, nominal_rate: 4}
` + otherAnnexes,
		"valor inválido": `
annexes:
  I:
    - {upper_bound: abc, nominal_rate: 4}
` + otherAnnexes,
		"dedução negativa": `
annexes:
  I:
    - {upper_bound: 4800000, nominal_rate: 4, deduction: -1}
` + otherAnnexes,
		"campo desconhecido": `
annexes:
  I:
    - {upper_bound: 4800000, nominal_rate: 4, aliquota: 1}
` + otherAnnexes,
		"anexo ausente": `
annexes:
  I:
    - {upper_bound: 4800000, nominal_rate: 4}
`,
		"anexo desconhecido": `
annexes:
  I:
    - {upper_bound: 4800000, nominal_rate: 4}
  VI:
    - {upper_bound: 4800000, nominal_rate: 4}
` + otherAnnexes,
		"anexo duplicado": `
annexes:
  I:
    - {upper_bound: 4800000, nominal_rate: 4}
  anexo i:
    - {upper_bound: 4800000, nominal_rate: 5}
` + otherAnnexes,
		"vazia": `annexes: {}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}

func TestTableValidate_Annexes(t *testing.T) {
	missing := DefaultTable()
	delete(missing, AnnexIV)
	require.ErrorContains(t, missing.Validate(), "missing annex IV")

	unknown := DefaultTable()
	unknown["ANEXO I"] = unknown[AnnexI]
	require.ErrorIs(t, unknown.Validate(), ErrUnknownAnnex)
}
