// Package storage persists cards and expenses in SQLite and answers the
// date-range queries the services are built on.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrCardNotFound is returned when a card id does not resolve.
var ErrCardNotFound = errors.New("card not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveCard inserts a new card or updates an existing one. The persisted
// record, with its assigned id, is returned.
func (r *SQLiteRepository) SaveCard(ctx context.Context, c core.Card) (core.Card, error) {
	if c.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO card (card_holder_name, masked_number, card_type, expiry, credit_limit_cents)
			VALUES (?, ?, ?, ?, ?)`,
			c.HolderName, c.MaskedNumber, c.CardType, c.Expiry.ISO(), c.CreditLimit.Cents)
		if err != nil {
			return core.Card{}, fmt.Errorf("insert card: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return core.Card{}, fmt.Errorf("card insert id: %w", err)
		}
		c.ID = id
	} else {
		_, err := r.db.ExecContext(ctx, `
			UPDATE card
			SET card_holder_name = ?, masked_number = ?, card_type = ?, expiry = ?, credit_limit_cents = ?
			WHERE id = ?`,
			c.HolderName, c.MaskedNumber, c.CardType, c.Expiry.ISO(), c.CreditLimit.Cents, c.ID)
		if err != nil {
			return core.Card{}, fmt.Errorf("update card: %w", err)
		}
	}

	slog.InfoContext(ctx, "Card saved",
		"id", c.ID,
		"holder", c.HolderName,
		"type", c.CardType)

	return c, nil
}

// FindCardByID returns the card or ErrCardNotFound.
func (r *SQLiteRepository) FindCardByID(ctx context.Context, id int64) (*core.Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, card_holder_name, masked_number, card_type, expiry, credit_limit_cents
		FROM card WHERE id = ?`, id)

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find card by id: %w", err)
	}
	return c, nil
}

// ListCards returns all cards in id-ascending order.
func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_holder_name, masked_number, card_type, expiry, credit_limit_cents
		FROM card ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []core.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// CountCards reports how many cards exist. The seeder uses this to decide
// whether sample data is needed.
func (r *SQLiteRepository) CountCards(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// SaveExpense resolves the referenced card, persists the expense and returns
// it with the full card attached. Saving fails with ErrCardNotFound when the
// card id does not resolve.
func (r *SQLiteRepository) SaveExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	card, err := r.FindCardByID(ctx, e.CardID())
	if err != nil {
		return core.Expense{}, fmt.Errorf("resolve card %d: %w", e.CardID(), err)
	}
	e.Card = card

	if e.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO expense (vendor, amount_cents, category, date, card_id)
			VALUES (?, ?, ?, ?, ?)`,
			e.Vendor, e.Amount.Cents, e.Category, e.Date.ISO(), card.ID)
		if err != nil {
			return core.Expense{}, fmt.Errorf("insert expense: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
		}
		e.ID = id
	} else {
		_, err := r.db.ExecContext(ctx, `
			UPDATE expense
			SET vendor = ?, amount_cents = ?, category = ?, date = ?, card_id = ?
			WHERE id = ?`,
			e.Vendor, e.Amount.Cents, e.Category, e.Date.ISO(), card.ID, e.ID)
		if err != nil {
			return core.Expense{}, fmt.Errorf("update expense: %w", err)
		}
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"vendor", e.Vendor,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date.ISO(),
		"card_id", card.ID)

	return e, nil
}

// FindExpensesByDateBetween returns expenses with start <= date <= end,
// cards attached, in insertion order.
func (r *SQLiteRepository) FindExpensesByDateBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, expenseSelect+`
		WHERE e.date BETWEEN ? AND ?
		ORDER BY e.id`, start.ISO(), end.ISO())
	if err != nil {
		return nil, fmt.Errorf("find expenses by date: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// FindExpensesByCardAndDateBetween is FindExpensesByDateBetween filtered to
// one card.
func (r *SQLiteRepository) FindExpensesByCardAndDateBetween(ctx context.Context, cardID int64, start, end core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, expenseSelect+`
		WHERE e.card_id = ? AND e.date BETWEEN ? AND ?
		ORDER BY e.id`, cardID, start.ISO(), end.ISO())
	if err != nil {
		return nil, fmt.Errorf("find expenses by card and date: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

const expenseSelect = `
	SELECT e.id, e.vendor, e.amount_cents, e.category, e.date,
	       c.id, c.card_holder_name, c.masked_number, c.card_type, c.expiry, c.credit_limit_cents
	FROM expense e
	JOIN card c ON c.id = e.card_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*core.Card, error) {
	var (
		c      core.Card
		expiry string
		limit  int64
	)
	if err := row.Scan(&c.ID, &c.HolderName, &c.MaskedNumber, &c.CardType, &expiry, &limit); err != nil {
		return nil, err
	}
	d, err := core.ParseDate(expiry)
	if err != nil {
		return nil, fmt.Errorf("parse card expiry %q: %w", expiry, err)
	}
	c.Expiry = d
	c.CreditLimit = core.FromCents(limit)
	return &c, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		var (
			e          core.Expense
			c          core.Card
			date       string
			cents      int64
			expiry     string
			limitCents int64
		)
		if err := rows.Scan(&e.ID, &e.Vendor, &cents, &e.Category, &date,
			&c.ID, &c.HolderName, &c.MaskedNumber, &c.CardType, &expiry, &limitCents); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		exp, err := core.ParseDate(expiry)
		if err != nil {
			return nil, fmt.Errorf("parse card expiry %q: %w", expiry, err)
		}
		e.Amount = core.FromCents(cents)
		e.Date = d
		c.Expiry = exp
		c.CreditLimit = core.FromCents(limitCents)
		e.Card = &c
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
