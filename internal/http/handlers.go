package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
)

// createTransactionRequest is the JSON body of POST /api/transactions.
type createTransactionRequest struct {
	Date        core.Date       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Account     string          `json:"account"`
	Note        string          `json:"note,omitempty"`
	PaymentMode string          `json:"paymentMode,omitempty"`
}

type saveAccountRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	txType, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.service.Create(r.Context(), services.CreateTransactionInput{
		Date:        req.Date,
		Amount:      req.Amount,
		Type:        txType,
		Category:    req.Category,
		Account:     req.Account,
		Note:        req.Note,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		s.writeServiceError(w, r, err, log.OpCreate)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.service.Find(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, log.OpList)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, log.OpDelete)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	csv, err := s.service.ExportCSV(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, log.OpExport)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing month")
		return
	}

	summary, err := s.service.SummarizeMonth(r.Context(), year, month)
	if err != nil {
		s.writeServiceError(w, r, err, log.OpSummarize)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, err := parseDateParam(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	totals, err := s.service.SummarizeByCategory(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, r, err, log.OpSummarize)
		return
	}
	if totals == nil {
		totals = []core.CategoryTotal{}
	}

	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.service.Accounts(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err, log.OpList)
			return
		}
		if accounts == nil {
			accounts = []core.Account{}
		}
		writeJSON(w, http.StatusOK, accounts)

	case http.MethodPost:
		var req saveAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		account, err := s.service.SaveAccount(r.Context(), req.Name, req.Description)
		if err != nil {
			s.writeServiceError(w, r, err, log.OpResolve)
			return
		}
		writeJSON(w, http.StatusOK, account)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// writeServiceError maps domain errors to status codes and logs
// everything else as a server failure.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Request failed",
			log.FieldRequestID, requestIDFrom(r.Context()),
			log.FieldOperation, op,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidMonth) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrEmptyAccount)
}
