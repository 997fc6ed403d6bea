package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contabilidadepro/contabilidade-api/internal/admin"
	"github.com/contabilidadepro/contabilidade-api/internal/auth"
	"github.com/contabilidadepro/contabilidade-api/internal/broker"
	"github.com/contabilidadepro/contabilidade-api/internal/config"
	"github.com/contabilidadepro/contabilidade-api/internal/db"
	"github.com/contabilidadepro/contabilidade-api/internal/fiscal"
	"github.com/contabilidadepro/contabilidade-api/internal/handlers"
	"github.com/contabilidadepro/contabilidade-api/internal/repository"
	"github.com/contabilidadepro/contabilidade-api/internal/utils"
)

// cmd/api/main.go
func main() {
	task := flag.String("task", "", "admin task: seed | create-user")
	username := flag.String("username", "", "create-user: login")
	password := flag.String("password", "", "create-user: senha")
	roles := flag.String("roles", "", "create-user: roles separadas por vírgula")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	log := config.InitLogger(cfg.LogLevel)

	// conecta Mongo
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Error("mongo_connect_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	database := client.Database(cfg.MongoDB)

	// HOOK: admin job (one-off)
	if *task != "" {
		if err := runTask(*task, database, *username, *password, *roles, log); err != nil {
			log.Error("admin_task_failed", "task", *task, "err", err)
			os.Exit(2)
		}
		return // encerra o processo sem subir HTTP
	}

	if err := run(cfg, database, log); err != nil {
		log.Error("api_error", "err", err)
		os.Exit(1)
	}
}

func runTask(task string, database *mongo.Database, username, password, roles string, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch task {
	case "seed":
		repo := repository.NewCompanyRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		n, err := admin.SeedCompanies(ctx, repo, log)
		if err != nil {
			return err
		}
		log.Info("seed_done", "created", n)
		return nil
	case "create-user":
		repo := repository.NewUserRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		u, err := admin.CreateUser(ctx, repo, username, password, roles)
		if err != nil {
			return err
		}
		log.Info("user_created", "username", u.Username, "roles", u.Roles)
		return nil
	default:
		return fmt.Errorf("unknown admin task %q", task)
	}
}

func run(cfg *config.Config, database *mongo.Database, log *slog.Logger) error {
	table, err := loadTaxTable(cfg.TaxTableFile)
	if err != nil {
		return err
	}
	calc := fiscal.NewCalculator(table)

	companies := repository.NewCompanyRepository(database)
	calcs := repository.NewCalculationRepository(database)
	users := repository.NewUserRepository(database)

	ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ensure := range []func(context.Context) error{companies.EnsureIndexes, calcs.EnsureIndexes, users.EnsureIndexes} {
		if err := ensure(ictx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	// publisher (Rabbit)
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("rabbitmq_close_error", "err", err)
		}
	}()

	rc := handlers.RouterConfig{
		Companies:    handlers.NewCompanyHandler(companies, calcs, pub),
		Calculations: handlers.NewCalculationHandler(companies, calcs, calc, pub, cfg.MEIMinimumWage),
	}
	if cfg.JWTSecret != "" {
		tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL)
		rc.Tokens = tokens
		rc.Auth = &handlers.AuthHandler{Service: auth.NewService(users, tokens)}
	} else {
		log.Warn("auth_disabled", "reason", "JWT_SECRET not set")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           utils.LogRequests(log, c.Handler(handlers.NewRouter(rc))),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB, "annexes", len(calc.Annexes()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-stop:
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful_shutdown_error", "err", err)
	}
	log.Info("stopped")
	return nil
}

// loadTaxTable lê as tabelas do Simples de um YAML; sem arquivo, nil
// (o calculador usa as tabelas embutidas).
func loadTaxTable(path string) (fiscal.Table, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tax table: %w", err)
	}
	defer f.Close()
	t, err := fiscal.LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("load tax table %s: %w", path, err)
	}
	return t, nil
}
