package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/contabilidadepro/contabilidade-api/internal/broker"
	"github.com/contabilidadepro/contabilidade-api/internal/fiscal"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
	"github.com/contabilidadepro/contabilidade-api/internal/repository"
	"github.com/contabilidadepro/contabilidade-api/internal/utils"
)

type CalculationHandler struct {
	Companies   Repository
	Repo        CalculationRepository
	Calc        Calculator
	Pub         Publisher
	MinimumWage decimal.Decimal
}

func NewCalculationHandler(companies Repository, repo CalculationRepository, calc Calculator, pub Publisher, minimumWage decimal.Decimal) *CalculationHandler {
	return &CalculationHandler{Companies: companies, Repo: repo, Calc: calc, Pub: pub, MinimumWage: minimumWage}
}

// POST /api/companies/{id}/calculations/das
func (h *CalculationHandler) DAS(w http.ResponseWriter, r *http.Request) {
	var dto DASRequestDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	company, ok := h.loadCompany(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if company.RegimeTributario != models.RegimeSimplesNacional {
		utils.UnprocessableEntity(w, "company is not under simples_nacional")
		return
	}

	in, err := dasInput(dto, company.Anexo)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	res, err := h.Calc.CalculateDAS(in)
	if err != nil {
		writeCalcError(w, err)
		return
	}

	now := time.Now().UTC()
	rec := &models.Calculation{
		ID:              uuid.NewString(),
		CompanyID:       company.ID,
		Tipo:            models.CalculoDAS,
		Competencia:     res.Period.String(),
		Vencimento:      res.DueDate,
		BaseCalculo:     res.BaseAmount.StringFixed(2),
		ValorDevido:     res.TaxAmount.StringFixed(2),
		Anexo:           string(res.Annex),
		Receita12Meses:  in.Trailing12MonthRevenue.StringFixed(2),
		AliquotaEfetiva: res.EffectiveRate.StringFixed(4),
		Faixa:           res.BracketIndex,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	h.save(ctx, w, company, rec)
}

// POST /api/companies/{id}/calculations/irpj
func (h *CalculationHandler) IRPJ(w http.ResponseWriter, r *http.Request) {
	var dto IRPJRequestDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	company, ok := h.loadCompany(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if company.RegimeTributario != models.RegimeLucroPresumido {
		utils.UnprocessableEntity(w, "company is not under lucro_presumido")
		return
	}

	activity := dto.AtividadePrincipal
	if activity == "" {
		activity = company.AtividadePrincipal
	}
	in := irpjInput(dto, activity)
	res, err := h.Calc.CalculateIRPJ(in)
	if err != nil {
		writeCalcError(w, err)
		return
	}

	now := time.Now().UTC()
	rec := &models.Calculation{
		ID:                  uuid.NewString(),
		CompanyID:           company.ID,
		Tipo:                models.CalculoIRPJ,
		Competencia:         res.Period.String(),
		Vencimento:          res.DueDate,
		BaseCalculo:         res.BaseAmount.StringFixed(2),
		ValorDevido:         res.TotalTax.StringFixed(2),
		PercentualPresuncao: res.PresumptionPercentage.String(),
		ImpostoNormal:       res.NormalTax.StringFixed(2),
		Adicional:           res.Surtax.StringFixed(2),
		Deducoes:            in.Deductions.StringFixed(2),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	h.save(ctx, w, company, rec)
}

// POST /api/companies/{id}/calculations/mei
func (h *CalculationHandler) MEI(w http.ResponseWriter, r *http.Request) {
	var dto MEIRequestDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	company, ok := h.loadCompany(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if company.RegimeTributario != models.RegimeMEI {
		utils.UnprocessableEntity(w, "company is not under mei")
		return
	}

	activity := dto.Atividade
	if activity == "" {
		activity = company.AtividadePrincipal
	}
	res, err := h.Calc.CalculateMEI(fiscal.MEIInput{
		Activity:              activity,
		MinimumWage:           h.MinimumWage,
		TrailingAnnualRevenue: dto.ReceitaBrutaAnual,
		Period:                periodOf(dto.Competencia),
	})
	if err != nil {
		writeCalcError(w, err)
		return
	}

	now := time.Now().UTC()
	rec := &models.Calculation{
		ID:          uuid.NewString(),
		CompanyID:   company.ID,
		Tipo:        models.CalculoMEI,
		Competencia: res.Period.String(),
		Vencimento:  res.DueDate,
		BaseCalculo: h.MinimumWage.StringFixed(2),
		ValorDevido: res.TotalTax.StringFixed(2),
		INSS:        res.INSS.StringFixed(2),
		ICMS:        res.ICMS.StringFixed(2),
		ISS:         res.ISS.StringFixed(2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	h.save(ctx, w, company, rec)
}

// GET /api/companies/{id}/calculations?tipo=&limit=&skip=
func (h *CalculationHandler) List(w http.ResponseWriter, r *http.Request) {
	tipo := r.URL.Query().Get("tipo")
	switch tipo {
	case "", models.CalculoDAS, models.CalculoIRPJ, models.CalculoMEI:
	default:
		utils.BadRequest(w, fmt.Sprintf("tipo must be one of %s, %s, %s", models.CalculoDAS, models.CalculoIRPJ, models.CalculoMEI))
		return
	}
	limit, skip := parsePagination(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	company, ok := h.loadCompany(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	list, err := h.Repo.ListByCompany(ctx, company.ID, tipo, limit, skip)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []models.Calculation{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /api/calculations/{id}
func (h *CalculationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.Repo.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeLookupError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// DELETE /api/calculations/{id}
func (h *CalculationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if err := h.Repo.Delete(ctx, id); err != nil {
		writeLookupError(w, err)
		return
	}
	if h.Pub != nil {
		publish(h.Pub, broker.Event{
			Action:      broker.ActionCalculationDeleted,
			Message:     fmt.Sprintf("Exclusão de cálculo %s %s", strings.ToUpper(c.Tipo), c.Competencia),
			CompanyID:   c.CompanyID,
			Tipo:        c.Tipo,
			Competencia: c.Competencia,
			Valor:       c.ValorDevido,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/simulations/das — não persiste nada.
func (h *CalculationHandler) SimulateDAS(w http.ResponseWriter, r *http.Request) {
	var dto DASRequestDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	in, err := dasInput(dto, "")
	if err != nil {
		writeCalcError(w, err)
		return
	}
	res, err := h.Calc.CalculateDAS(in)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// POST /api/simulations/irpj
func (h *CalculationHandler) SimulateIRPJ(w http.ResponseWriter, r *http.Request) {
	var dto IRPJRequestDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	in := irpjInput(dto, dto.AtividadePrincipal)
	res, err := h.Calc.CalculateIRPJ(in)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// GET /api/tax-tables
func (h *CalculationHandler) TaxTables(w http.ResponseWriter, r *http.Request) {
	annexes := h.Calc.Annexes()
	out := make([]TaxTableDTO, 0, len(annexes))
	for _, a := range annexes {
		brackets, err := h.Calc.Lookup(a)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, taxTableDTO(a, brackets))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// GET /api/tax-tables/{annex}
func (h *CalculationHandler) TaxTable(w http.ResponseWriter, r *http.Request) {
	annex := fiscal.NormalizeAnnex(mux.Vars(r)["annex"])
	brackets, err := h.Calc.Lookup(annex)
	if err != nil {
		if errors.Is(err, fiscal.ErrUnknownAnnex) {
			utils.NotFound(w)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, taxTableDTO(annex, brackets))
}

func taxTableDTO(a fiscal.Annex, brackets []fiscal.TaxBracket) TaxTableDTO {
	dto := TaxTableDTO{Annex: string(a), Brackets: make([]TaxBracketDTO, len(brackets))}
	for i, b := range brackets {
		dto.Brackets[i] = TaxBracketDTO{
			Faixa:       i + 1,
			UpperBound:  b.UpperBound,
			NominalRate: b.NominalRate,
			Deduction:   b.Deduction,
		}
	}
	return dto
}

// dasInput monta a entrada do DAS. Anexo do corpo tem precedência sobre o
// da empresa; com folha informada, o Fator R pode levar o Anexo V ao III.
func dasInput(dto DASRequestDTO, companyAnnex string) (fiscal.DASInput, error) {
	raw := dto.Anexo
	if raw == "" {
		raw = companyAnnex
	}
	annex := fiscal.NormalizeAnnex(raw)
	if dto.Folha12Meses != nil {
		if err := fiscal.ValidatePayroll(*dto.Folha12Meses); err != nil {
			return fiscal.DASInput{}, err
		}
		annex = fiscal.ResolveAnnexByFatorR(annex, *dto.Folha12Meses, dto.ReceitaBruta12Meses)
	}
	return fiscal.DASInput{
		Trailing12MonthRevenue: dto.ReceitaBruta12Meses,
		GrossMonthlyRevenue:    dto.ReceitaBrutaMensal,
		Annex:                  annex,
		Period:                 periodOf(dto.Competencia),
	}, nil
}

func irpjInput(dto IRPJRequestDTO, activity string) fiscal.IRPJInput {
	return fiscal.IRPJInput{
		GrossRevenue: dto.ReceitaBruta,
		Deductions:   dto.Deducoes,
		MainActivity: activity,
		Period:       periodOf(dto.Competencia),
	}
}

// periodOf não falha: uma competência inválida vira o valor zero, que o
// calculador rejeita com ErrInvalidCompetence depois de validar as receitas.
func periodOf(s string) fiscal.Competence {
	c, err := fiscal.ParseCompetence(s)
	if err != nil {
		return fiscal.Competence{}
	}
	return c
}

func (h *CalculationHandler) loadCompany(ctx context.Context, w http.ResponseWriter, id string) (*models.Company, bool) {
	c, err := h.Companies.GetByID(ctx, utils.SanitizeCNPJ(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "company not found")
			return nil, false
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return c, true
}

func (h *CalculationHandler) save(ctx context.Context, w http.ResponseWriter, company *models.Company, rec *models.Calculation) {
	saved, err := h.Repo.Save(ctx, rec)
	if err != nil {
		slog.Error("save_calculation_error", "company_id", company.ID, "tipo", rec.Tipo, "err", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.Pub != nil {
		publish(h.Pub, broker.Event{
			Action:      broker.ActionCalculationSaved,
			Message:     fmt.Sprintf("Cálculo %s %s de EMPRESA %s", strings.ToUpper(saved.Tipo), saved.Competencia, company.DisplayName()),
			CompanyID:   company.ID,
			CNPJ:        company.CNPJ,
			Nome:        company.DisplayName(),
			Tipo:        saved.Tipo,
			Competencia: saved.Competencia,
			Valor:       saved.ValorDevido,
		})
	}
	utils.WriteJSON(w, http.StatusCreated, saved)
}

// writeCalcError: erros de validação fiscal viram 422.
func writeCalcError(w http.ResponseWriter, err error) {
	if fiscal.IsValidationError(err) {
		utils.UnprocessableEntity(w, err.Error())
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, err.Error())
}
