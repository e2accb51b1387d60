package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseCardForm binds the new-card form fields onto a Card.
func parseCardForm(r *http.Request) (core.Card, error) {
	limit, err := core.ParseAmount(strings.TrimSpace(r.Form.Get("creditLimit")))
	if err != nil {
		return core.Card{}, fmt.Errorf("credit limit: %w", err)
	}
	expiry, err := core.ParseDate(r.Form.Get("expiry"))
	if err != nil {
		return core.Card{}, fmt.Errorf("expiry: %w", err)
	}
	card := core.Card{
		HolderName:   sanitizeInput(r.Form.Get("cardHolderName")),
		MaskedNumber: sanitizeInput(r.Form.Get("maskedNumber")),
		CardType:     sanitizeInput(r.Form.Get("cardType")),
		Expiry:       expiry,
		CreditLimit:  limit,
	}
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}
	return card, nil
}

// parseExpenseForm binds the new-expense form fields onto an Expense. The
// card reference only carries the id; the store resolves the full card.
func parseExpenseForm(r *http.Request) (core.Expense, error) {
	amount, err := core.ParseAmount(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount: %w", err)
	}
	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return core.Expense{}, fmt.Errorf("date: %w", err)
	}
	cardID, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("card.id")), 10, 64)
	if err != nil {
		return core.Expense{}, fmt.Errorf("card.id: %w", core.ErrMissingCard)
	}
	expense := core.Expense{
		Vendor:   sanitizeInput(r.Form.Get("vendor")),
		Amount:   amount,
		Category: sanitizeInput(r.Form.Get("category")),
		Date:     date,
		Card:     &core.Card{ID: cardID},
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}
	return expense, nil
}

// parseCardID reads the optional cardId query parameter. ok is false when
// the parameter is absent or not a number.
func parseCardID(r *http.Request) (id int64, ok bool) {
	v := strings.TrimSpace(r.URL.Query().Get("cardId"))
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// chartJSON renders an aggregation as parallel JSON arrays of labels and
// numeric values for the chart scripts.
func chartJSON(rows []services.LabelAmount) (labels, values template.JS) {
	ls := make([]string, 0, len(rows))
	vs := make([]json.Number, 0, len(rows))
	for _, row := range rows {
		ls = append(ls, row.Label)
		vs = append(vs, json.Number(row.Amount.String()))
	}
	lb, _ := json.Marshal(ls)
	vb, _ := json.Marshal(vs)
	return template.JS(lb), template.JS(vb)
}
