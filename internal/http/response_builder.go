package http

import (
	"encoding/json"
	"net/http"
)

// Error details returned in {"detail": ...} bodies.
const (
	DetailOperatorNotFound = "Operadora não encontrada"
	DetailInternal         = "Erro interno"
	DetailNotFound         = "Not Found"
	DetailMethodNotAllowed = "Method Not Allowed"
	DetailRateLimited      = "Muitas requisições, tente novamente mais tarde"
)

type detailBody struct {
	Detail string `json:"detail"`
}

// writeJSON encodes v with the given status. The body is encoded before the
// header is written so a marshalling failure can still become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, DetailInternal)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	body, _ := json.Marshal(detailBody{Detail: detail})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
