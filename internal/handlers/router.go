package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/contabilidadepro/contabilidade-api/internal/auth"
)

const adminRole = "admin"

type RouterConfig struct {
	Companies    *CompanyHandler
	Calculations *CalculationHandler
	Auth         *AuthHandler // nil desliga /api/login
	Tokens       *auth.Tokens // nil roda sem autenticação
}

// NewRouter registra as rotas da API. Com Tokens, tudo em /api exige
// bearer token (menos o login) e os DELETE exigem a role admin.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", cfg.Companies.Health).Methods(http.MethodGet)

	if cfg.Auth != nil {
		r.HandleFunc("/api/login", cfg.Auth.Login).Methods(http.MethodPost)
	}

	api := r.PathPrefix("/api").Subrouter()
	admin := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.Tokens != nil {
		api.Use(auth.Middleware(cfg.Tokens))
		admin = func(h http.HandlerFunc) http.Handler { return auth.RequireRole(adminRole, h) }
	}

	c := cfg.Companies
	api.HandleFunc("/companies", c.List).Methods(http.MethodGet)
	api.HandleFunc("/companies", c.Create).Methods(http.MethodPost)
	api.HandleFunc("/companies/{id}", c.Get).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}", c.Put).Methods(http.MethodPut)
	api.HandleFunc("/companies/{id}", c.Patch).Methods(http.MethodPatch)
	api.Handle("/companies/{id}", admin(c.Delete)).Methods(http.MethodDelete)

	if k := cfg.Calculations; k != nil {
		api.HandleFunc("/companies/{id}/calculations", k.List).Methods(http.MethodGet)
		api.HandleFunc("/companies/{id}/calculations/das", k.DAS).Methods(http.MethodPost)
		api.HandleFunc("/companies/{id}/calculations/irpj", k.IRPJ).Methods(http.MethodPost)
		api.HandleFunc("/companies/{id}/calculations/mei", k.MEI).Methods(http.MethodPost)
		api.HandleFunc("/calculations/{id}", k.Get).Methods(http.MethodGet)
		api.Handle("/calculations/{id}", admin(k.Delete)).Methods(http.MethodDelete)
		api.HandleFunc("/simulations/das", k.SimulateDAS).Methods(http.MethodPost)
		api.HandleFunc("/simulations/irpj", k.SimulateIRPJ).Methods(http.MethodPost)
		api.HandleFunc("/tax-tables", k.TaxTables).Methods(http.MethodGet)
		api.HandleFunc("/tax-tables/{annex}", k.TaxTable).Methods(http.MethodGet)
	}
	return r
}
