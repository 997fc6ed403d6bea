package handlers

import (
	"errors"
	"fmt"

	"github.com/contabilidadepro/contabilidade-api/internal/fiscal"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
)

func validateCreateDTO(d CompanyCreateDTO) error {
	if d.CNPJ == "" {
		return errors.New("cnpj is required")
	}
	if d.NomeFantasia == "" && d.RazaoSocial == "" {
		return errors.New("either nome_fantasia or razao_social is required")
	}
	return nil
}

func validatePutDTO(d CompanyPutDTO) error {
	if d.NomeFantasia == "" && d.RazaoSocial == "" {
		return errors.New("either nome_fantasia or razao_social is required")
	}
	return nil
}

// normalizeRegime valida regime e anexo juntos e devolve o anexo canônico.
// Fora do Simples Nacional o anexo é descartado.
func normalizeRegime(regime, anexo string) (string, error) {
	if !models.ValidRegime(regime) {
		return "", fmt.Errorf("regime_tributario must be one of %s, %s, %s",
			models.RegimeSimplesNacional, models.RegimeLucroPresumido, models.RegimeMEI)
	}
	if regime != models.RegimeSimplesNacional {
		return "", nil
	}
	if anexo == "" {
		return "", errors.New("anexo is required for simples_nacional")
	}
	a, err := fiscal.ParseAnnex(anexo)
	if err != nil {
		return "", fmt.Errorf("anexo %q is not a Simples Nacional annex", anexo)
	}
	return string(a), nil
}
