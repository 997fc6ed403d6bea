package ws

import (
	"log/slog"
	"testing"
	"time"
)

func recv(t *testing.T, c *Client, want string) {
	t.Helper()
	select {
	case got := <-c.Send:
		if string(got) != want {
			t.Fatalf("%s got %q want %q", c.ID, got, want)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting %s", c.ID)
	}
}

func nothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case got, ok := <-c.Send:
		if ok {
			t.Fatalf("%s should not receive, got %q", c.ID, got)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	c1 := h.NewClient("", 1)
	c2 := h.NewClient("11222333000181", 1)
	h.Register(c1)
	h.Register(c2)

	h.Broadcast([]byte("hello"))

	recv(t, c1, "hello")
	recv(t, c2, "hello")
}

func TestHub_PublishFiltersByCompany(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	all := &Client{ID: "all", Send: make(chan []byte, 4)}
	acme := &Client{ID: "acme", CompanyID: "11222333000181", Send: make(chan []byte, 4)}
	other := &Client{ID: "other", CompanyID: "11444777000161", Send: make(chan []byte, 4)}
	h.Register(all)
	h.Register(acme)
	h.Register(other)

	h.Publish("11222333000181", []byte("das"))

	recv(t, all, "das")
	recv(t, acme, "das")
	nothing(t, other)
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	slow := &Client{ID: "slow", Send: make(chan []byte)} // sem buffer, ninguém lendo
	h.Register(slow)
	h.Broadcast([]byte("x"))

	deadline := time.Now().Add(time.Second)
	for h.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("slow client not dropped, len=%d", h.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := <-slow.Send; ok {
		t.Fatal("send channel should be closed")
	}
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	c := h.NewClient("", 1)
	h.Register(c)
	h.Unregister(c)
	h.SendToClient(c.ID, []byte("x"))

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("channel not closed")
	}
}

// depois do Stop, publicar além do buffer não pode travar quem consome a fila
func TestHub_PublishAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	h.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3000; i++ {
			h.Publish("11222333000181", []byte("x"))
			h.Broadcast([]byte("y"))
		}
		h.SendToClient("c1", []byte("z"))
		h.Register(h.NewClient("", 1))
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish/Broadcast bloqueou depois do Stop")
	}
}
