package fiscal

import "errors"

// Erros de validação dos cálculos. São sempre retornados embrulhados
// com uma mensagem específica; compare com errors.Is.
var (
	ErrInvalidRevenue       = errors.New("invalid revenue")
	ErrRevenueLimitExceeded = errors.New("revenue limit exceeded")
	ErrInvalidDeduction     = errors.New("invalid deduction")
	ErrUnknownAnnex         = errors.New("unknown annex")
	ErrInvalidCompetence    = errors.New("invalid competence")
	ErrMEILimitExceeded     = errors.New("mei annual revenue limit exceeded")
	ErrInvalidPayroll       = errors.New("invalid payroll")
)

var validationErrors = []error{
	ErrInvalidRevenue,
	ErrRevenueLimitExceeded,
	ErrInvalidDeduction,
	ErrUnknownAnnex,
	ErrInvalidCompetence,
	ErrMEILimitExceeded,
	ErrInvalidPayroll,
}

// IsValidationError informa se err pertence à taxonomia de erros de entrada.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
