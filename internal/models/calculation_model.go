package models

import "time"

// Tipos de cálculo persistidos.
const (
	CalculoDAS  = "das"
	CalculoIRPJ = "irpj"
	CalculoMEI  = "mei"
)

// Calculation é o registro de um cálculo por empresa, tipo e competência.
// Valores monetários ficam como texto decimal com precisão fixa
// ("1330.00") para não passar por float no banco.
type Calculation struct {
	ID          string    `bson:"_id" json:"id"`
	CompanyID   string    `bson:"company_id" json:"company_id"`
	Tipo        string    `bson:"tipo" json:"tipo"`
	Competencia string    `bson:"competencia" json:"competencia"` // YYYY-MM
	Vencimento  time.Time `bson:"vencimento" json:"vencimento"`
	BaseCalculo string    `bson:"base_calculo" json:"base_calculo"`
	ValorDevido string    `bson:"valor_devido" json:"valor_devido"`

	// DAS
	Anexo           string `bson:"anexo,omitempty" json:"anexo,omitempty"`
	Receita12Meses  string `bson:"receita_12_meses,omitempty" json:"receita_12_meses,omitempty"`
	AliquotaEfetiva string `bson:"aliquota_efetiva,omitempty" json:"aliquota_efetiva,omitempty"`
	Faixa           int    `bson:"faixa,omitempty" json:"faixa,omitempty"`

	// IRPJ
	PercentualPresuncao string `bson:"percentual_presuncao,omitempty" json:"percentual_presuncao,omitempty"`
	ImpostoNormal       string `bson:"imposto_normal,omitempty" json:"imposto_normal,omitempty"`
	Adicional           string `bson:"adicional,omitempty" json:"adicional,omitempty"`
	Deducoes            string `bson:"deducoes,omitempty" json:"deducoes,omitempty"`

	// MEI
	INSS string `bson:"inss,omitempty" json:"inss,omitempty"`
	ICMS string `bson:"icms,omitempty" json:"icms,omitempty"`
	ISS  string `bson:"iss,omitempty" json:"iss,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
