package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/contabilidadepro/contabilidade-api/internal/broker"
	"github.com/contabilidadepro/contabilidade-api/internal/config"
	"github.com/contabilidadepro/contabilidade-api/internal/utils"
	"github.com/contabilidadepro/contabilidade-api/internal/ws"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load_dotenv_error", "err", err)
		os.Exit(1)
	}
	wscfg := config.LoadWSConfig()

	_ = config.InitLogger(wscfg.LogLevel)
	log := slog.Default().With("svc", "ws")
	hub := ws.NewHub(log)
	go hub.Run()

	// Conecta no Rabbit e começa a consumir
	consumer, err := broker.NewConsumer(wscfg.RabbitURI, wscfg.RabbitQueue, "ws-consumer", wscfg.ConsumerPrefetch)
	if err != nil {
		log.Error("rabbit_consumer_start_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = consumer.Close() }()
	log.Info("rabbit_consumer_started", "queue", wscfg.RabbitQueue)

	// encaminha mensagens do Rabbit para o hub, filtrando por empresa
	go func() {
		for d := range consumer.Deliveries {
			hub.Publish(broker.CompanyIDFromHeaders(d.Headers), d.Body)
		}
		log.Warn("deliveries_channel_closed")
	}()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(wscfg.AllowedOrigins),
	}

	// HTTP: /ws e /healthz
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWS(hub, &upgrader, wscfg.ClientBuffer, w, r, log)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "clients": hub.Len()})
	})

	srv := &http.Server{
		Addr:              wscfg.Addr,
		Handler:           utils.LogRequests(log, mux),
		ReadHeaderTimeout: wscfg.ReadHeaderTimeout,
	}

	go func() {
		log.Info("ws_listen", "addr", wscfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), wscfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	hub.Stop()

	log.Info("stopped")
}

// originChecker: lista vazia ou "*" aceita qualquer origem.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := set[u.Scheme+"://"+u.Host]
		return ok
	}
}

func handleWS(hub *ws.Hub, upgrader *websocket.Upgrader, buffer int, w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("ws_upgrade_error", "err", err)
		return
	}

	// ?company_id=X recebe só os eventos daquela empresa
	client := hub.NewClient(utils.SanitizeCNPJ(r.URL.Query().Get("company_id")), buffer)
	hub.Register(client)
	log.Info("ws_client_connected", "id", client.ID, "company_id", client.CompanyID)

	// writer: encaminha o que o hub manda e mantém o ping
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			_ = conn.Close()
		}()
		for {
			select {
			case msg, ok := <-client.Send:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					// hub fechou o canal
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// reader: só detecta o fechamento da conexão
	go func() {
		defer func() {
			hub.Unregister(client)
			_ = conn.Close()
			log.Info("ws_client_disconnected", "id", client.ID)
		}()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
