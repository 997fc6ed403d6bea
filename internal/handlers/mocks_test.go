package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/contabilidadepro/contabilidade-api/internal/broker"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
)

type repoMock struct {
	GetAllFn  func(ctx context.Context, limit, skip int64) ([]models.Company, error)
	CreateFn  func(ctx context.Context, c *models.Company) (string, error)
	GetByIDFn func(ctx context.Context, id string) (*models.Company, error)
	UpdateFn  func(ctx context.Context, id string, upd *models.Company) error
	ReplaceFn func(ctx context.Context, id string, doc *models.Company) error
	DeleteFn  func(ctx context.Context, id string) error
}

func (m *repoMock) GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error) {
	if m.GetAllFn == nil {
		return nil, errors.New("GetAllFn not set")
	}
	return m.GetAllFn(ctx, limit, skip)
}
func (m *repoMock) Create(ctx context.Context, c *models.Company) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, c)
}
func (m *repoMock) GetByID(ctx context.Context, id string) (*models.Company, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, id string, upd *models.Company) error {
	if m.UpdateFn == nil {
		return errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, upd)
}
func (m *repoMock) Replace(ctx context.Context, id string, doc *models.Company) error {
	if m.ReplaceFn == nil {
		return errors.New("ReplaceFn not set")
	}
	return m.ReplaceFn(ctx, id, doc)
}
func (m *repoMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFn == nil {
		return errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}

type calcRepoMock struct {
	SaveFn            func(ctx context.Context, c *models.Calculation) (*models.Calculation, error)
	GetByIDFn         func(ctx context.Context, id string) (*models.Calculation, error)
	ListByCompanyFn   func(ctx context.Context, companyID, tipo string, limit, skip int64) ([]models.Calculation, error)
	DeleteFn          func(ctx context.Context, id string) error
	DeleteByCompanyFn func(ctx context.Context, companyID string) (int64, error)
}

func (m *calcRepoMock) Save(ctx context.Context, c *models.Calculation) (*models.Calculation, error) {
	if m.SaveFn == nil {
		return nil, errors.New("SaveFn not set")
	}
	return m.SaveFn(ctx, c)
}
func (m *calcRepoMock) GetByID(ctx context.Context, id string) (*models.Calculation, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *calcRepoMock) ListByCompany(ctx context.Context, companyID, tipo string, limit, skip int64) ([]models.Calculation, error) {
	if m.ListByCompanyFn == nil {
		return nil, errors.New("ListByCompanyFn not set")
	}
	return m.ListByCompanyFn(ctx, companyID, tipo, limit, skip)
}
func (m *calcRepoMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFn == nil {
		return errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}
func (m *calcRepoMock) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	if m.DeleteByCompanyFn == nil {
		return 0, nil
	}
	return m.DeleteByCompanyFn(ctx, companyID)
}

// pubMock guarda os eventos publicados.
type pubMock struct {
	PublishFn func(ctx context.Context, ev broker.Event) error
	CloseFn   func() error

	mu     sync.Mutex
	events []broker.Event
}

func (p *pubMock) Publish(ctx context.Context, ev broker.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, ev)
}
func (p *pubMock) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

func (p *pubMock) Events() []broker.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]broker.Event(nil), p.events...)
}
