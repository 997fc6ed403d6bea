package broker

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Ações publicadas na fila.
const (
	ActionCompanyCreated     = "empresa.cadastro"
	ActionCompanyUpdated     = "empresa.edicao"
	ActionCompanyDeleted     = "empresa.exclusao"
	ActionCalculationSaved   = "calculo.salvo"
	ActionCalculationDeleted = "calculo.exclusao"
)

// Event é o corpo JSON das mensagens.
type Event struct {
	Action      string    `json:"action"`
	Message     string    `json:"message"`
	CompanyID   string    `json:"company_id"`
	CNPJ        string    `json:"cnpj,omitempty"`
	Nome        string    `json:"nome,omitempty"`
	Tipo        string    `json:"tipo,omitempty"`
	Competencia string    `json:"competencia,omitempty"`
	Valor       string    `json:"valor,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Headers replica os campos de roteamento nos cabeçalhos AMQP.
func (e Event) Headers() amqp.Table {
	h := amqp.Table{
		"action":     e.Action,
		"company_id": e.CompanyID,
		"timestamp":  e.Timestamp.UTC().Format(time.RFC3339),
	}
	if e.Tipo != "" {
		h["tipo"] = e.Tipo
	}
	return h
}

// CompanyIDFromHeaders lê o company_id de uma entrega; vazio se ausente.
func CompanyIDFromHeaders(h amqp.Table) string {
	v, _ := h["company_id"].(string)
	return v
}
