package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/contabilidadepro/contabilidade-api/internal/fiscal"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
	"github.com/contabilidadepro/contabilidade-api/internal/repository"
	"github.com/contabilidadepro/contabilidade-api/internal/utils"
)

//go:embed seeds/companies.json
var companiesJSON []byte

type seedItem struct {
	CNPJ               string `json:"cnpj"`
	NomeFantasia       string `json:"nome_fantasia"`
	RazaoSocial        string `json:"razao_social"`
	Endereco           string `json:"endereco"`
	RegimeTributario   string `json:"regime_tributario"`
	Anexo              string `json:"anexo"`
	AtividadePrincipal string `json:"atividade_principal"`
}

type CompanyCreator interface {
	Create(ctx context.Context, c *models.Company) (string, error)
}

// SeedCompanies é idempotente: cria se não existir; se já existir, ignora.
// Devolve quantas empresas foram criadas.
func SeedCompanies(ctx context.Context, repo CompanyCreator, log *slog.Logger) (int, error) {
	var items []seedItem
	if err := json.Unmarshal(companiesJSON, &items); err != nil {
		return 0, err
	}

	created := 0
	for _, s := range items {
		cnpj := utils.SanitizeCNPJ(s.CNPJ)
		if !utils.ValidateCNPJ(cnpj) {
			log.Warn("seed_skip_invalid_cnpj", "raw", s.CNPJ)
			continue
		}
		if !models.ValidRegime(s.RegimeTributario) {
			log.Warn("seed_skip_invalid_regime", "cnpj", cnpj, "regime", s.RegimeTributario)
			continue
		}

		c := models.Company{
			ID:                 cnpj, // CNPJ é o ID
			CNPJ:               cnpj,
			NomeFantasia:       s.NomeFantasia,
			RazaoSocial:        s.RazaoSocial,
			Endereco:           s.Endereco,
			RegimeTributario:   s.RegimeTributario,
			AtividadePrincipal: s.AtividadePrincipal,
		}
		if c.RegimeTributario == models.RegimeSimplesNacional {
			a, err := fiscal.ParseAnnex(s.Anexo)
			if err != nil {
				log.Warn("seed_skip_invalid_anexo", "cnpj", cnpj, "anexo", s.Anexo)
				continue
			}
			c.Anexo = string(a)
		}

		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_, err := repo.Create(ictx, &c)
		cancel()

		if err != nil {
			if errors.Is(err, repository.ErrDuplicateCNPJ) {
				log.Info("seed_company_exists", "cnpj", cnpj)
				continue
			}
			return created, err
		}
		created++
		log.Info("seed_company_created", "cnpj", cnpj)
	}

	log.Info("seed_companies_done", "count", len(items), "created", created)
	return created, nil
}
