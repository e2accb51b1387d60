package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/storage"
)

type cardRow struct {
	ID           int64
	HolderName   string
	MaskedNumber string
	CardType     string
	Expiry       string
	CreditLimit  string
}

type expenseRow struct {
	Vendor     string
	Amount     string
	Date       string
	Category   string
	CardMasked string
}

// cardFormData preserves the user's input when a card form re-renders after
// a validation failure.
type cardFormData struct {
	HolderName   string
	MaskedNumber string
	CardType     string
	Expiry       string
	CreditLimit  string
}

type cardsView struct {
	Cards []cardRow
	Form  cardFormData
	Error string
}

type expensesView struct {
	Expenses []expenseRow
	Cards    []cardRow
	Today    string
	Error    string
}

type dashboardView struct {
	Cards          []cardRow
	SelectedCardID int64
	HasSelection   bool
	Expenses       []expenseRow
	TotalSpent     string
	Limit          string
	Utilization    int
	CategoryLabels template.JS
	CategoryData   template.JS
	VendorLabels   template.JS
	VendorData     template.JS
	DailyLabels    template.JS
	DailyData      template.JS
}

func toCardRows(cards []core.Card) []cardRow {
	rows := make([]cardRow, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, cardRow{
			ID:           c.ID,
			HolderName:   c.HolderName,
			MaskedNumber: c.MaskedNumber,
			CardType:     c.CardType,
			Expiry:       c.Expiry.ISO(),
			CreditLimit:  c.CreditLimit.String(),
		})
	}
	return rows
}

func toExpenseRows(expenses []core.Expense) []expenseRow {
	rows := make([]expenseRow, 0, len(expenses))
	for _, e := range expenses {
		masked := "N/A"
		if e.Card != nil {
			masked = e.Card.MaskedNumber
		}
		rows = append(rows, expenseRow{
			Vendor:     e.Vendor,
			Amount:     e.Amount.String(),
			Date:       e.Date.ISO(),
			Category:   e.Category,
			CardMasked: masked,
		})
	}
	return rows
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "index.html", nil)
}

func (s *Server) handleNewCardForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, "credit-card.html", cardsView{})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderCardList(w, r, http.StatusOK, cardFormData{}, "")
	case http.MethodPost:
		s.createCard(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderCardList(w http.ResponseWriter, r *http.Request, status int, form cardFormData, errMsg string) {
	cards, err := s.cards.ListCards(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List cards error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	s.render(w, r, "credit-card.html", cardsView{
		Cards: toCardRows(cards),
		Form:  form,
		Error: errMsg,
	})
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	card, err := parseCardForm(r)
	if err != nil {
		form := cardFormData{
			HolderName:   r.Form.Get("cardHolderName"),
			MaskedNumber: r.Form.Get("maskedNumber"),
			CardType:     r.Form.Get("cardType"),
			Expiry:       r.Form.Get("expiry"),
			CreditLimit:  r.Form.Get("creditLimit"),
		}
		s.renderCardList(w, r, http.StatusBadRequest, form, err.Error())
		return
	}

	if _, err := s.cards.SaveCard(r.Context(), card); err != nil {
		slog.ErrorContext(r.Context(), "Save card error", "error", err, "holder", card.HolderName)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/cards", http.StatusSeeOther)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderExpenseList(w, r, http.StatusOK, "")
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderExpenseList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	expenses, err := s.expenses.FindMonthlyExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly expenses error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	cards, err := s.cards.ListCards(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List cards error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	s.render(w, r, "expenses.html", expensesView{
		Expenses: toExpenseRows(expenses),
		Cards:    toCardRows(cards),
		Today:    core.Today().ISO(),
		Error:    errMsg,
	})
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	expense, err := parseExpenseForm(r)
	if err != nil {
		s.renderExpenseList(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.expenses.Save(r.Context(), expense)
	if err != nil {
		if errors.Is(err, storage.ErrCardNotFound) {
			s.renderExpenseList(w, r, http.StatusBadRequest, "unknown card")
			return
		}
		slog.ErrorContext(r.Context(), "Save expense error", "error", err, "vendor", expense.Vendor)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"id", saved.ID,
		"vendor", saved.Vendor,
		"amount_cents", saved.Amount.Cents,
		"card_id", saved.CardID())

	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	cards, err := s.cards.ListCards(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List cards error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view := dashboardView{
		Cards:      toCardRows(cards),
		TotalSpent: core.Money{}.String(),
		Limit:      core.Money{}.String(),
	}
	emptyLabels, emptyValues := chartJSON(nil)
	view.CategoryLabels, view.CategoryData = emptyLabels, emptyValues
	view.VendorLabels, view.VendorData = emptyLabels, emptyValues
	view.DailyLabels, view.DailyData = emptyLabels, emptyValues

	cardID, hasCardID := parseCardID(r)
	if !hasCardID {
		s.render(w, r, "dashboard.html", view)
		return
	}

	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, storage.ErrCardNotFound) {
			// Unknown card renders like no selection, with a zero limit.
			s.render(w, r, "dashboard.html", view)
			return
		}
		slog.ErrorContext(ctx, "Find card error", "error", err, "card_id", cardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	expenses, err := s.expenses.FindExpensesByCardIDThisMonth(ctx, cardID)
	if err != nil {
		slog.ErrorContext(ctx, "Card expenses error", "error", err, "card_id", cardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	total, err := s.expenses.CalculateTotalForCardThisMonth(ctx, cardID)
	if err != nil {
		slog.ErrorContext(ctx, "Card total error", "error", err, "card_id", cardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view.SelectedCardID = cardID
	view.HasSelection = true
	view.Expenses = toExpenseRows(expenses)
	view.TotalSpent = total.String()
	view.Limit = card.CreditLimit.String()
	if card.CreditLimit.Cents > 0 {
		view.Utilization = int(total.Cents * 100 / card.CreditLimit.Cents)
		if view.Utilization > 100 {
			view.Utilization = 100
		}
	}

	categories, err := s.charts.GetCategoryTotals(ctx, cardID)
	if err != nil {
		slog.ErrorContext(ctx, "Category totals error", "error", err, "card_id", cardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	vendors, err := s.charts.GetVendorTotals(ctx, cardID)
	if err != nil {
		slog.ErrorContext(ctx, "Vendor totals error", "error", err, "card_id", cardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	daily, err := s.charts.GetDailySpend(ctx, cardID)
	if err != nil {
		slog.ErrorContext(ctx, "Daily spend error", "error", err, "card_id", cardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view.CategoryLabels, view.CategoryData = chartJSON(categories)
	view.VendorLabels, view.VendorData = chartJSON(vendors)
	view.DailyLabels, view.DailyData = chartJSON(daily)

	s.render(w, r, "dashboard.html", view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	expenses, err := s.expenses.FindMonthlyExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export query error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=expenses.csv")

	if err := export.WriteExpensesCSV(w, expenses); err != nil {
		// Usually a client gone mid-download; nothing to recover.
		slog.WarnContext(r.Context(), "CSV write aborted", "error", err)
	}
}
