package fiscal

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SimplesCeiling é o teto de receita bruta em 12 meses do Simples Nacional.
var SimplesCeiling = decimal.NewFromInt(4_800_000)

// Annex identifica uma tabela do Simples Nacional.
type Annex string

const (
	AnnexI   Annex = "I"
	AnnexII  Annex = "II"
	AnnexIII Annex = "III"
	AnnexIV  Annex = "IV"
	AnnexV   Annex = "V"
)

// NormalizeAnnex aceita "III", "iii", "anexo iii" e "Anexo III", sem validar.
func NormalizeAnnex(s string) Annex {
	v := strings.ToUpper(strings.TrimSpace(s))
	return Annex(strings.TrimSpace(strings.TrimPrefix(v, "ANEXO")))
}

// ParseAnnex normaliza e confere contra a tabela padrão.
func ParseAnnex(s string) (Annex, error) {
	a := NormalizeAnnex(s)
	if _, ok := defaultTable[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAnnex, s)
	}
	return a, nil
}

// TaxBracket é uma faixa de receita bruta acumulada (RBT12).
// UpperBound é inclusivo; NominalRate em percentual; Deduction em reais.
type TaxBracket struct {
	UpperBound  decimal.Decimal `json:"upper_bound"`
	NominalRate decimal.Decimal `json:"nominal_rate"`
	Deduction   decimal.Decimal `json:"deduction"`
}

// Table mapeia cada anexo às suas faixas, em ordem crescente de UpperBound.
type Table map[Annex][]TaxBracket

func bracket(upper int64, rate string, deduction int64) TaxBracket {
	return TaxBracket{
		UpperBound:  decimal.NewFromInt(upper),
		NominalRate: decimal.RequireFromString(rate),
		Deduction:   decimal.NewFromInt(deduction),
	}
}

// LC 123/2006, anexos I a V, redação da LC 155/2016 (vigente desde 2018).
// Atualizar anualmente conforme a legislação.
var defaultTable = Table{
	AnnexI: {
		bracket(180_000, "4.00", 0),
		bracket(360_000, "7.30", 5_940),
		bracket(720_000, "9.50", 13_860),
		bracket(1_800_000, "10.70", 22_500),
		bracket(3_600_000, "14.30", 87_300),
		bracket(4_800_000, "19.00", 378_000),
	},
	AnnexII: {
		bracket(180_000, "4.50", 0),
		bracket(360_000, "7.80", 5_940),
		bracket(720_000, "10.00", 13_860),
		bracket(1_800_000, "11.20", 22_500),
		bracket(3_600_000, "14.70", 85_500),
		bracket(4_800_000, "30.00", 720_000),
	},
	AnnexIII: {
		bracket(180_000, "6.00", 0),
		bracket(360_000, "11.20", 9_360),
		bracket(720_000, "13.50", 17_640),
		bracket(1_800_000, "16.00", 35_640),
		bracket(3_600_000, "21.00", 125_640),
		bracket(4_800_000, "33.00", 648_000),
	},
	AnnexIV: {
		bracket(180_000, "4.50", 0),
		bracket(360_000, "9.00", 8_100),
		bracket(720_000, "10.20", 12_420),
		bracket(1_800_000, "14.00", 39_780),
		bracket(3_600_000, "22.00", 183_780),
		bracket(4_800_000, "33.00", 828_000),
	},
	AnnexV: {
		bracket(180_000, "15.50", 0),
		bracket(360_000, "18.00", 4_500),
		bracket(720_000, "19.50", 9_900),
		bracket(1_800_000, "20.50", 17_100),
		bracket(3_600_000, "23.00", 62_100),
		bracket(4_800_000, "30.50", 540_000),
	},
}

// DefaultTable devolve uma cópia da tabela compilada.
func DefaultTable() Table {
	return defaultTable.clone()
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for a, bs := range t {
		out[a] = append([]TaxBracket(nil), bs...)
	}
	return out
}

// Lookup devolve as faixas do anexo, em ordem crescente.
func (t Table) Lookup(annex Annex) ([]TaxBracket, error) {
	bs, ok := t[annex]
	if !ok || len(bs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnnex, string(annex))
	}
	return append([]TaxBracket(nil), bs...), nil
}

// Annexes lista os anexos em ordem (I, II, III...).
func (t Table) Annexes() []Annex {
	out := make([]Annex, 0, len(t))
	for a := range t {
		out = append(out, a)
	}
	order := map[Annex]int{AnnexI: 1, AnnexII: 2, AnnexIII: 3, AnnexIV: 4, AnnexV: 5}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := order[out[i]], order[out[j]]
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}

// Validate garante os anexos I a V (e só eles), ordem crescente, cobertura
// até o teto e valores não negativos.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tax table is empty")
	}
	for annex := range t {
		if _, ok := defaultTable[annex]; !ok {
			return fmt.Errorf("%w: %q in tax table", ErrUnknownAnnex, annex)
		}
	}
	for _, annex := range []Annex{AnnexI, AnnexII, AnnexIII, AnnexIV, AnnexV} {
		if _, ok := t[annex]; !ok {
			return fmt.Errorf("tax table is missing annex %s", annex)
		}
	}
	for annex, bs := range t {
		if len(bs) == 0 {
			return fmt.Errorf("annex %s: no brackets", annex)
		}
		prev := decimal.Zero
		for i, b := range bs {
			if !b.UpperBound.GreaterThan(prev) {
				return fmt.Errorf("annex %s bracket %d: upper bound %s is not ascending", annex, i+1, b.UpperBound)
			}
			if b.NominalRate.IsNegative() || b.Deduction.IsNegative() {
				return fmt.Errorf("annex %s bracket %d: negative rate or deduction", annex, i+1)
			}
			prev = b.UpperBound
		}
		if prev.LessThan(SimplesCeiling) {
			return fmt.Errorf("annex %s: last bracket %s does not reach ceiling %s", annex, prev, SimplesCeiling)
		}
	}
	return nil
}

// Lookup consulta a tabela padrão.
func Lookup(annex Annex) ([]TaxBracket, error) {
	return defaultTable.Lookup(annex)
}

type yamlBracket struct {
	UpperBound  string `yaml:"upper_bound"`
	NominalRate string `yaml:"nominal_rate"`
	Deduction   string `yaml:"deduction"`
}

type yamlTable struct {
	Annexes map[string][]yamlBracket `yaml:"annexes"`
}

// LoadTable lê uma tabela em YAML e a valida antes de devolver.
//
// As chaves aceitam as mesmas grafias de NormalizeAnnex ("I", "Anexo I").
//
//	annexes:
//	  I:
//	    - {upper_bound: 180000, nominal_rate: 4.00, deduction: 0}
func LoadTable(r io.Reader) (Table, error) {
	var raw yamlTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tax table: %w", err)
	}

	t := make(Table, len(raw.Annexes))
	for name, rows := range raw.Annexes {
		annex := NormalizeAnnex(name)
		if _, dup := t[annex]; dup {
			return nil, fmt.Errorf("annex %s declared more than once", annex)
		}
		bs := make([]TaxBracket, 0, len(rows))
		for i, row := range rows {
			b, err := row.parse()
			if err != nil {
				return nil, fmt.Errorf("annex %s bracket %d: %w", annex, i+1, err)
			}
			bs = append(bs, b)
		}
		t[annex] = bs
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (y yamlBracket) parse() (TaxBracket, error) {
	upper, err := decimal.NewFromString(y.UpperBound)
	if err != nil {
		return TaxBracket{}, fmt.Errorf("upper_bound: %w", err)
	}
	rate, err := decimal.NewFromString(y.NominalRate)
	if err != nil {
		return TaxBracket{}, fmt.Errorf("nominal_rate: %w", err)
	}
	ded := decimal.Zero
	if y.Deduction != "" {
		if ded, err = decimal.NewFromString(y.Deduction); err != nil {
			return TaxBracket{}, fmt.Errorf("deduction: %w", err)
		}
	}
	return TaxBracket{UpperBound: upper, NominalRate: rate, Deduction: ded}, nil
}
