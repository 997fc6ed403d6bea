package handlers

// somente os campos do contrato; _id é derivado do CNPJ no servidor
type CompanyCreateDTO struct {
	CNPJ               string `json:"cnpj"`
	NomeFantasia       string `json:"nome_fantasia"`
	RazaoSocial        string `json:"razao_social"`
	Endereco           string `json:"endereco"`
	RegimeTributario   string `json:"regime_tributario"`
	Anexo              string `json:"anexo"`
	AtividadePrincipal string `json:"atividade_principal"`
}

// Update parcial; ponteiros distinguem "omitido" de "informado".
type CompanyPatchDTO struct {
	CNPJ               *string `json:"cnpj,omitempty"`
	NomeFantasia       *string `json:"nome_fantasia,omitempty"`
	RazaoSocial        *string `json:"razao_social,omitempty"`
	Endereco           *string `json:"endereco,omitempty"`
	RegimeTributario   *string `json:"regime_tributario,omitempty"`
	Anexo              *string `json:"anexo,omitempty"`
	AtividadePrincipal *string `json:"atividade_principal,omitempty"`
}

type CompanyPutDTO struct {
	CNPJ               *string `json:"cnpj,omitempty"`
	NomeFantasia       string  `json:"nome_fantasia"`
	RazaoSocial        string  `json:"razao_social"`
	Endereco           string  `json:"endereco"`
	RegimeTributario   string  `json:"regime_tributario"`
	Anexo              string  `json:"anexo"`
	AtividadePrincipal string  `json:"atividade_principal"`
}
