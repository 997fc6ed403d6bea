package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes limita o corpo das requisições JSON.
const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

/*
DecodeStrict decodifica JSON rejeitando chaves desconhecidas
e garantindo que exista exatamente UM objeto JSON.
*/
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Garante que não tenha lixo após o objeto JSON
	if dec.More() {
		return errors.New("unexpected additional JSON content")
	}
	return nil
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"error": msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusBadRequest, msg)
}

func NotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "not found")
}

func UnprocessableEntity(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusUnprocessableEntity, msg)
}

// FormatDecodeError deixa as mensagens do encoding/json mais curtas
// ("json: unknown field \"foo\"" -> "unknown field \"foo\"").
func FormatDecodeError(err error) string {
	if errors.Is(err, io.EOF) {
		return "empty request body"
	}
	return strings.TrimPrefix(err.Error(), "json: ")
}
