package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeStrict(t *testing.T) {
	var dst struct {
		A string `json:"a"`
	}
	if err := DecodeStrict(strings.NewReader(`{"a":"x"}`), &dst); err != nil || dst.A != "x" {
		t.Fatalf("err=%v dst=%+v", err, dst)
	}
	if err := DecodeStrict(strings.NewReader(`{"b":"x"}`), &dst); err == nil {
		t.Fatal("expected unknown field error")
	} else if got := FormatDecodeError(err); got != `unknown field "b"` {
		t.Fatalf("message: %q", got)
	}
	if err := DecodeStrict(strings.NewReader(`{"a":"x"}{"a":"y"}`), &dst); err == nil {
		t.Fatal("expected trailing content error")
	}
	if err := DecodeStrict(strings.NewReader(``), &dst); err == nil || FormatDecodeError(err) != "empty request body" {
		t.Fatalf("expected empty body error, got %v", err)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	UnprocessableEntity(rr, "boom")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%s", ct)
	}
	if !strings.Contains(rr.Body.String(), `"error":"boom"`) {
		t.Fatalf("body=%s", rr.Body.String())
	}
}
