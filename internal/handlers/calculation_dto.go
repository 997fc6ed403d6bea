package handlers

import "github.com/shopspring/decimal"

// Valores monetários aceitam número ou string JSON ("1500.50").

type DASRequestDTO struct {
	Competencia         string           `json:"competencia"`
	ReceitaBruta12Meses decimal.Decimal  `json:"receita_bruta_12_meses"`
	ReceitaBrutaMensal  decimal.Decimal  `json:"receita_bruta_mensal"`
	Anexo               string           `json:"anexo,omitempty"`
	Folha12Meses        *decimal.Decimal `json:"folha_12_meses,omitempty"`
}

type IRPJRequestDTO struct {
	Competencia        string          `json:"competencia"`
	ReceitaBruta       decimal.Decimal `json:"receita_bruta"`
	Deducoes           decimal.Decimal `json:"deducoes"`
	AtividadePrincipal string          `json:"atividade_principal,omitempty"`
}

type MEIRequestDTO struct {
	Competencia       string          `json:"competencia"`
	Atividade         string          `json:"atividade,omitempty"`
	ReceitaBrutaAnual decimal.Decimal `json:"receita_bruta_anual"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TaxTableDTO struct {
	Annex    string          `json:"annex"`
	Brackets []TaxBracketDTO `json:"brackets"`
}

type TaxBracketDTO struct {
	Faixa       int             `json:"faixa"`
	UpperBound  decimal.Decimal `json:"upper_bound"`
	NominalRate decimal.Decimal `json:"nominal_rate"`
	Deduction   decimal.Decimal `json:"deduction"`
}
