package core

import (
	"testing"
	"time"
)

func TestDateISO(t *testing.T) {
	d := NewDate(2026, 3, 7)
	if got := d.ISO(); got != "2026-03-07" {
		t.Fatalf("ISO() = %q, want zero-padded 2026-03-07", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.December || d.Day() != 31 {
		t.Fatalf("ParseDate returned %v", d)
	}
	if _, err := ParseDate("31/12/2026"); err == nil {
		t.Fatal("ParseDate should reject non-ISO input")
	}
}

func TestCardValidate(t *testing.T) {
	valid := Card{
		HolderName:   "Alex Johnson",
		MaskedNumber: "**** **** **** 1234",
		CardType:     "Visa",
		Expiry:       NewDate(2026, 12, 31),
		CreditLimit:  FromCents(500000),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Card)
		want   error
	}{
		{"missing holder", func(c *Card) { c.HolderName = " " }, ErrEmptyHolderName},
		{"missing masked number", func(c *Card) { c.MaskedNumber = "" }, ErrEmptyMaskedNum},
		{"missing type", func(c *Card) { c.CardType = "" }, ErrEmptyCardType},
		{"missing expiry", func(c *Card) { c.Expiry = Date{} }, ErrInvalidDate},
		{"negative limit", func(c *Card) { c.CreditLimit = FromCents(-1) }, ErrNegativeLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			if err := c.Validate(); err != tc.want {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	card := &Card{ID: 1}
	valid := Expense{
		Vendor:   "Whole Foods",
		Amount:   FromCents(8525),
		Category: "Groceries",
		Date:     Today(),
		Card:     card,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"missing vendor", func(e *Expense) { e.Vendor = "" }, ErrEmptyVendor},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"missing category", func(e *Expense) { e.Category = "  " }, ErrEmptyCategory},
		{"missing date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{"missing card", func(e *Expense) { e.Card = nil }, ErrMissingCard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			if err := e.Validate(); err != tc.want {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestExpenseCardID(t *testing.T) {
	e := Expense{}
	if e.CardID() != 0 {
		t.Fatal("detached expense should report card id 0")
	}
	e.Card = &Card{ID: 7}
	if e.CardID() != 7 {
		t.Fatalf("CardID() = %d, want 7", e.CardID())
	}
}
