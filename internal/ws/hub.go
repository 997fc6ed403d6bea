package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client é uma conexão websocket. CompanyID vazio recebe eventos de todas
// as empresas; preenchido, só os daquela empresa.
type Client struct {
	ID        string
	CompanyID string
	Send      chan []byte
}

type message struct {
	companyID string // vazio = todos os clientes
	body      []byte
}

type unicastMsg struct {
	id  string
	msg []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client

	publish chan message
	unicast chan unicastMsg

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		publish:  make(chan message, 1024),
		unicast:  make(chan unicastMsg, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	return fmt.Sprintf("c%d", h.nextID.Add(1))
}

// NewClient cria um cliente com ID já atribuído.
func (h *Hub) NewClient(companyID string, buffer int) *Client {
	return &Client{ID: h.newID(), CompanyID: companyID, Send: make(chan []byte, buffer)}
}

// Len devolve o número de clientes conectados.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			if c.ID == "" {
				c.ID = h.newID()
			}
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "company_id", c.CompanyID, "total", total)

		case c := <-h.unreg:
			if c == nil || c.ID == "" {
				continue
			}
			h.remove(c.ID)
			h.log.Info("client_unregistered", "id", c.ID, "total", h.Len())

		case m := <-h.publish:
			var slow []string
			h.mu.RLock()
			for id, c := range h.clients {
				if m.companyID != "" && c.CompanyID != "" && c.CompanyID != m.companyID {
					continue
				}
				select {
				case c.Send <- m.body:
				default:
					// cliente lento -> dropa para não travar o hub
					slow = append(slow, id)
				}
			}
			h.mu.RUnlock()
			for _, id := range slow {
				h.remove(id)
				h.log.Warn("client_dropped_slow", "id", id)
			}

		case u := <-h.unicast:
			h.mu.RLock()
			c := h.clients[u.id]
			h.mu.RUnlock()
			if c == nil {
				h.log.Warn("send_one_miss", "id", u.id)
				continue
			}
			select {
			case c.Send <- u.msg:
			default:
				h.remove(u.id)
				h.log.Warn("send_one_drop_slow", "id", u.id)
			}

		case <-h.stop:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

// remove fecha o canal do cliente uma única vez.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Register e Unregister não bloqueiam depois do Stop.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stop:
	}
}

// Broadcast envia para todos os clientes.
func (h *Hub) Broadcast(b []byte) { h.enqueue(message{body: b}) }

// Publish envia para os clientes da empresa e para os que não filtram.
// Depois do Stop a mensagem é descartada.
func (h *Hub) Publish(companyID string, b []byte) {
	h.enqueue(message{companyID: companyID, body: b})
}

func (h *Hub) enqueue(m message) {
	select {
	case h.publish <- m:
	case <-h.stop:
	}
}

func (h *Hub) SendToClient(id string, b []byte) {
	select {
	case h.unicast <- unicastMsg{id: id, msg: b}:
	case <-h.stop:
	}
}
