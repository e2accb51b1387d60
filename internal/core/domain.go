package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date without a time-of-day component.
	Date struct {
		time.Time
	}

	// Card is a registered credit card with a display-masked number and a
	// spending limit.
	Card struct {
		ID           int64
		HolderName   string
		MaskedNumber string
		CardType     string
		Expiry       Date
		CreditLimit  Money
	}

	// Expense is a single charge attributed to one card. Card is nil until
	// the store resolves the reference on save.
	Expense struct {
		ID       int64
		Vendor   string
		Amount   Money
		Category string
		Date     Date
		Card     *Card
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyVendor     = errors.New("empty vendor")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyHolderName = errors.New("empty card holder name")
	ErrEmptyMaskedNum  = errors.New("empty masked number")
	ErrEmptyCardType   = errors.New("empty card type")
	ErrNegativeLimit   = errors.New("negative credit limit")
	ErrMissingCard     = errors.New("missing card reference")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// Today returns the current date in the server's local time zone.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) Date {
	return Date{Time: d.Time.AddDate(0, 0, days)}
}

// ISO returns the date in strict ISO-8601 calendar form, zero-padded.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.HolderName) == "" {
		return ErrEmptyHolderName
	}
	if strings.TrimSpace(c.MaskedNumber) == "" {
		return ErrEmptyMaskedNum
	}
	if strings.TrimSpace(c.CardType) == "" {
		return ErrEmptyCardType
	}
	if err := c.Expiry.Validate(); err != nil {
		return err
	}
	if c.CreditLimit.Cents < 0 {
		return ErrNegativeLimit
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Vendor) == "" {
		return ErrEmptyVendor
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Card == nil || e.Card.ID == 0 {
		return ErrMissingCard
	}
	return nil
}

// CardID returns the id of the referenced card, or 0 when none is attached.
func (e Expense) CardID() int64 {
	if e.Card == nil {
		return 0
	}
	return e.Card.ID
}
