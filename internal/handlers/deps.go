package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/contabilidadepro/contabilidade-api/internal/broker"
	"github.com/contabilidadepro/contabilidade-api/internal/fiscal"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
)

type Repository interface {
	GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error)
	Create(ctx context.Context, c *models.Company) (string, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
	Update(ctx context.Context, id string, upd *models.Company) error
	Replace(ctx context.Context, id string, doc *models.Company) error
	Delete(ctx context.Context, id string) error
}

type CalculationRepository interface {
	Save(ctx context.Context, c *models.Calculation) (*models.Calculation, error)
	GetByID(ctx context.Context, id string) (*models.Calculation, error)
	ListByCompany(ctx context.Context, companyID, tipo string, limit, skip int64) ([]models.Calculation, error)
	Delete(ctx context.Context, id string) error
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev broker.Event) error
	Close() error
}

// Calculator é implementado por *fiscal.Calculator.
type Calculator interface {
	CalculateDAS(in fiscal.DASInput) (fiscal.DASResult, error)
	CalculateIRPJ(in fiscal.IRPJInput) (fiscal.IRPJResult, error)
	CalculateMEI(in fiscal.MEIInput) (fiscal.MEIResult, error)
	Lookup(annex fiscal.Annex) ([]fiscal.TaxBracket, error)
	Annexes() []fiscal.Annex
}

// parsePagination: limit padrão 50 (máx. 200), skip padrão 0.
func parsePagination(r *http.Request) (limit, skip int64) {
	q := r.URL.Query()
	limit, skip = 50, 0
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if s := q.Get("skip"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
			skip = v
		}
	}
	return limit, skip
}
