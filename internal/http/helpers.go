package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tally/internal/core"
)

// parseFilter builds a transaction filter from query parameters.
// Supported: startDate, endDate (ISO dates), category, account
// (substring match), type.
func parseFilter(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()

	var f core.Filter

	start, err := parseDateParam(r, "startDate")
	if err != nil {
		return core.Filter{}, err
	}
	f.Start = start

	end, err := parseDateParam(r, "endDate")
	if err != nil {
		return core.Filter{}, err
	}
	f.End = end

	f.Category = q.Get("category")
	f.Account = q.Get("account")

	if raw := q.Get("type"); raw != "" {
		txType, err := core.ParseTransactionType(raw)
		if err != nil {
			return core.Filter{}, err
		}
		f.Type = txType
	}

	return f, nil
}

func parseDateParam(r *http.Request, name string) (*core.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// generateRequestID creates a random request identifier, falling back
// to a timestamp when the random source fails.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
