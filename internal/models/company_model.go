package models

import "time"

// Regimes tributários aceitos no cadastro.
const (
	RegimeSimplesNacional = "simples_nacional"
	RegimeLucroPresumido  = "lucro_presumido"
	RegimeMEI             = "mei"
)

type Company struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	CNPJ               string    `bson:"cnpj" json:"cnpj"` // armazenado normalizado (apenas dígitos)
	NomeFantasia       string    `bson:"nome_fantasia" json:"nome_fantasia"`
	RazaoSocial        string    `bson:"razao_social" json:"razao_social"`
	Endereco           string    `bson:"endereco" json:"endereco"`
	RegimeTributario   string    `bson:"regime_tributario" json:"regime_tributario"`
	Anexo              string    `bson:"anexo,omitempty" json:"anexo,omitempty"` // só Simples Nacional
	AtividadePrincipal string    `bson:"atividade_principal" json:"atividade_principal"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName escolhe o nome a exibir em eventos e logs.
func (c *Company) DisplayName() string {
	if c.NomeFantasia != "" {
		return c.NomeFantasia
	}
	if c.RazaoSocial != "" {
		return c.RazaoSocial
	}
	return c.CNPJ
}

func ValidRegime(r string) bool {
	switch r {
	case RegimeSimplesNacional, RegimeLucroPresumido, RegimeMEI:
		return true
	}
	return false
}
