package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/db"
	"github.com/ukydev/motomaint/internal/garage"
	"github.com/ukydev/motomaint/internal/middleware"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/numfmt"
)

const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// decodeBody reads and unmarshals a JSON request body. It writes the error
// response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors to status codes. Validation messages are
// returned to the caller; anything unexpected is reported generically.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, garage.ErrMileageRegression):
		http.Error(w, err.Error()+"; resend with confirm to apply", http.StatusConflict)
	case errors.Is(err, garage.ErrArchiveDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ownerID returns the authenticated user's id, writing 401 when absent.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok || claims.UserID == "" {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// NumberInput accepts a JSON number or a string, the latter possibly with
// thousands separators as typed into a form.
type NumberInput string

func (n *NumberInput) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberInput(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected number or string: %w", err)
	}
	*n = NumberInput(num.String())
	return nil
}

// Mileage parses the input as a whole number of kilometers.
func (n NumberInput) Mileage() (int, error) {
	v, err := numfmt.ParseMileage(string(n))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return v, nil
}
