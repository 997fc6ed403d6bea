package fiscal

import (
	"fmt"
	"time"
)

// Competence é o mês de referência (competência) de um cálculo.
type Competence struct {
	Year  int
	Month time.Month
}

func NewCompetence(year int, month time.Month) Competence {
	return Competence{Year: year, Month: month}
}

// ParseCompetence aceita "YYYY-MM".
func ParseCompetence(s string) (Competence, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Competence{}, fmt.Errorf("%w: %q (expected YYYY-MM)", ErrInvalidCompetence, s)
	}
	return Competence{Year: t.Year(), Month: t.Month()}, nil
}

func (c Competence) Valid() bool {
	return c.Year >= 1900 && c.Year <= 9999 && c.Month >= time.January && c.Month <= time.December
}

func (c Competence) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Next devolve a competência seguinte, virando o ano em dezembro.
func (c Competence) Next() Competence {
	t := time.Date(c.Year, c.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return Competence{Year: t.Year(), Month: t.Month()}
}

// DASDueDate: dia 20 do mês seguinte à competência.
func (c Competence) DASDueDate() time.Time {
	n := c.Next()
	return time.Date(n.Year, n.Month, 20, 0, 0, 0, 0, time.UTC)
}

// IRPJDueDate: último dia do mês seguinte à competência.
func (c Competence) IRPJDueDate() time.Time {
	// dia 0 do mês M+2 é o último dia de M+1
	return time.Date(c.Year, c.Month+2, 0, 0, 0, 0, 0, time.UTC)
}

func (c Competence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Competence) UnmarshalText(b []byte) error {
	p, err := ParseCompetence(string(b))
	if err != nil {
		return err
	}
	*c = p
	return nil
}

func validCompetence(c Competence) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidCompetence, c)
	}
	return nil
}
