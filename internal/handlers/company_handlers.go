package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/contabilidadepro/contabilidade-api/internal/broker"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
	"github.com/contabilidadepro/contabilidade-api/internal/repository"
	"github.com/contabilidadepro/contabilidade-api/internal/utils"
)

const requestTimeout = 5 * time.Second

type CompanyHandler struct {
	Repo  Repository
	Calcs CalculationRepository // opcional: remove cálculos junto com a empresa
	Pub   Publisher
}

func NewCompanyHandler(repo Repository, calcs CalculationRepository, pub Publisher) *CompanyHandler {
	return &CompanyHandler{Repo: repo, Calcs: calcs, Pub: pub}
}

func (h *CompanyHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/companies?limit=&skip=
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, skip := parsePagination(r)
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.Repo.GetAll(ctx, limit, skip)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []models.Company{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// POST /api/companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CompanyCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validateCreateDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	c := models.Company{
		CNPJ:               utils.SanitizeCNPJ(dto.CNPJ),
		NomeFantasia:       dto.NomeFantasia,
		RazaoSocial:        dto.RazaoSocial,
		Endereco:           dto.Endereco,
		RegimeTributario:   dto.RegimeTributario,
		AtividadePrincipal: dto.AtividadePrincipal,
	}
	if !utils.ValidateCNPJ(c.CNPJ) {
		utils.BadRequest(w, "invalid cnpj")
		return
	}
	anexo, err := normalizeRegime(dto.RegimeTributario, dto.Anexo)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	c.Anexo = anexo
	c.ID = c.CNPJ

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if _, err := h.Repo.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicateCNPJ) {
			utils.WriteError(w, http.StatusConflict, "cnpj already exists")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publishEvent(broker.ActionCompanyCreated, "Cadastro", &c)
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /api/companies/{id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// PATCH /api/companies/{id}
func (h *CompanyHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto CompanyPatchDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	existing, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	// Monta o modelo para update apenas com campos presentes
	upd := models.Company{}

	if dto.CNPJ != nil {
		cnpj := utils.SanitizeCNPJ(*dto.CNPJ)
		if !utils.ValidateCNPJ(cnpj) {
			utils.BadRequest(w, "invalid cnpj")
			return
		}
		// Só tente mudar se for diferente do atual
		if cnpj != existing.CNPJ {
			upd.CNPJ = cnpj
		}
	}
	if dto.NomeFantasia != nil {
		upd.NomeFantasia = *dto.NomeFantasia
	}
	if dto.RazaoSocial != nil {
		upd.RazaoSocial = *dto.RazaoSocial
	}
	if dto.Endereco != nil {
		upd.Endereco = *dto.Endereco
	}
	if dto.AtividadePrincipal != nil {
		upd.AtividadePrincipal = *dto.AtividadePrincipal
	}

	// regime e anexo são validados sobre o estado resultante
	if dto.RegimeTributario != nil || dto.Anexo != nil {
		regime, anexo := existing.RegimeTributario, existing.Anexo
		if dto.RegimeTributario != nil {
			regime = *dto.RegimeTributario
		}
		if dto.Anexo != nil {
			anexo = *dto.Anexo
		}
		normalized, err := normalizeRegime(regime, anexo)
		if err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		upd.RegimeTributario = regime
		upd.Anexo = normalized
	}

	if err := h.Repo.Update(ctx, id, &upd); err != nil {
		if errors.Is(err, repository.ErrDuplicateCNPJ) {
			utils.WriteError(w, http.StatusConflict, "cnpj already exists")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(w)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Retorna o doc atualizado; a edição já foi gravada, então falha na releitura só gera log
	c2, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		slog.Warn("reload_company_error", "id", id, "err", err)
		utils.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	h.publishEvent(broker.ActionCompanyUpdated, "Edição", c2)
	utils.WriteJSON(w, http.StatusOK, c2)
}

// PUT /api/companies/{id}
func (h *CompanyHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto CompanyPutDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validatePutDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	// Regras para CNPJ:
	// - se não vier no body, usar o {id}
	// - se vier, deve ser igual ao {id}
	cnpj := id
	if dto.CNPJ != nil {
		cnpj = utils.SanitizeCNPJ(*dto.CNPJ)
		if cnpj != id {
			utils.BadRequest(w, "cnpj in body must match the resource id in path")
			return
		}
	}
	if !utils.ValidateCNPJ(cnpj) {
		utils.BadRequest(w, "invalid cnpj")
		return
	}
	anexo, err := normalizeRegime(dto.RegimeTributario, dto.Anexo)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	current, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	// documento COMPLETO que substituirá o atual (PUT = replace)
	newDoc := models.Company{
		ID:                 id,
		CNPJ:               cnpj,
		NomeFantasia:       dto.NomeFantasia,
		RazaoSocial:        dto.RazaoSocial,
		Endereco:           dto.Endereco,
		RegimeTributario:   dto.RegimeTributario,
		Anexo:              anexo,
		AtividadePrincipal: dto.AtividadePrincipal,
		CreatedAt:          current.CreatedAt,
		UpdatedAt:          time.Now().UTC(),
	}

	if err := h.Repo.Replace(ctx, id, &newDoc); err != nil {
		if errors.Is(err, repository.ErrDuplicateCNPJ) {
			utils.WriteError(w, http.StatusConflict, "cnpj already exists")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publishEvent(broker.ActionCompanyUpdated, "Edição", &newDoc)
	utils.WriteJSON(w, http.StatusOK, newDoc)
}

// DELETE /api/companies/{id}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	// Busca antes de deletar para publicar o nome
	c, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	if err := h.Repo.Delete(ctx, id); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.Calcs != nil {
		if n, err := h.Calcs.DeleteByCompany(ctx, id); err != nil {
			slog.Error("delete_company_calculations_error", "company_id", id, "err", err)
		} else if n > 0 {
			slog.Info("company_calculations_deleted", "company_id", id, "count", n)
		}
	}

	h.publishEvent(broker.ActionCompanyDeleted, "Exclusão", c)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompanyHandler) publishEvent(action, verbo string, c *models.Company) {
	if h.Pub == nil || c == nil {
		return
	}
	publish(h.Pub, broker.Event{
		Action:    action,
		Message:   fmt.Sprintf("%s de EMPRESA %s", verbo, c.DisplayName()),
		CompanyID: c.ID,
		CNPJ:      c.CNPJ,
		Nome:      c.DisplayName(),
	})
}

// publish não bloqueia a resposta por mais de 2s; falhas só vão para o log.
func publish(pub Publisher, ev broker.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev.Timestamp = time.Now().UTC()
	if err := pub.Publish(ctx, ev); err != nil {
		slog.Warn("publish_event_error", "action", ev.Action, "company_id", ev.CompanyID, "err", err)
	}
}

// writeLookupError: ErrNotFound vira 404, o resto 500.
func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(w)
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, err.Error())
}
