package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Bills         Category = "Bills"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Investing     Category = "Investment"
	Education     Category = "Education"
	Other         Category = "Other"
)

const (
	Stocks       InvestmentType = "Stocks"
	MutualFunds  InvestmentType = "Mutual Funds"
	Crypto       InvestmentType = "Crypto"
	RealEstate   InvestmentType = "Real Estate"
	FixedDeposit InvestmentType = "Fixed Deposit"
	Gold         InvestmentType = "Gold"
	OtherAsset   InvestmentType = "Other"
)

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

type (
	Frequency      string
	Category       string
	InvestmentType string
	Theme          string

	Date struct {
		time.Time
	}

	Expense struct {
		ID                 string
		Amount             decimal.Decimal
		Category           Category
		Date               Date
		Notes              string
		Tags               []string
		IsRecurring        bool
		RecurringFrequency Frequency
		RecurringFrom      string // ID of the recurring template this occurrence came from
		LastGenerated      Date   // last occurrence date created from this template, zero if none
		CreatedAt          time.Time
	}

	Investment struct {
		ID           string
		Amount       decimal.Decimal
		CurrentValue decimal.NullDecimal
		Type         InvestmentType
		Date         Date
		Purpose      string
		Notes        string
		CreatedAt    time.Time
	}

	// Budgets maps a category to its spending ceiling.
	Budgets map[Category]decimal.Decimal

	Settings struct {
		Theme          Theme
		AccountBalance decimal.Decimal
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidType      = errors.New("invalid investment type")
	ErrInvalidFrequency = errors.New("invalid recurring frequency")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrNegativeBalance  = errors.New("account balance cannot be negative")
	ErrNotesTooLong     = errors.New("notes too long (max 500 characters)")
)

const maxNotesLength = 500

var categories = []Category{Food, Transport, Shopping, Bills, Entertainment, Health, Investing, Education, Other}

var investmentTypes = []InvestmentType{Stocks, MutualFunds, Crypto, RealEstate, FixedDeposit, Gold, OtherAsset}

// Categories returns every expense category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory maps free text onto the closed category set.
// Matching is case-insensitive; anything unknown becomes Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Other
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// Index returns the display position of c, or -1 when unknown.
func (c Category) Index() int {
	for i, v := range categories {
		if v == c {
			return i
		}
	}
	return -1
}

// InvestmentTypes returns every investment type in display order.
func InvestmentTypes() []InvestmentType {
	return append([]InvestmentType(nil), investmentTypes...)
}

// ParseInvestmentType maps free text onto the closed type set, falling back to OtherAsset.
func ParseInvestmentType(s string) InvestmentType {
	s = strings.TrimSpace(s)
	for _, t := range investmentTypes {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return OtherAsset
}

func (t InvestmentType) Valid() bool {
	for _, v := range investmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseFrequency returns the recurrence frequency for s.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	default:
		return "", ErrInvalidFrequency
	}
}

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", ErrInvalidTheme
	}
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's wall clock date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts an ISO date, or a timestamp whose first ten characters are one.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(time.DateOnly, s[:10])
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

// String renders the date as yyyy-MM-dd.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Before and After compare calendar days.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.IsRecurring {
		if _, err := ParseFrequency(string(e.RecurringFrequency)); err != nil {
			return err
		}
	}
	if len(e.Notes) > maxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// Clone returns a copy of e that shares no memory with it.
func (e Expense) Clone() Expense {
	e.Tags = append([]string(nil), e.Tags...)
	return e
}

func (i Investment) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if i.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if i.CurrentValue.Valid && i.CurrentValue.Decimal.IsNegative() {
		return ErrInvalidAmount
	}
	if !i.Type.Valid() {
		return ErrInvalidType
	}
	if len(i.Notes) > maxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// Current returns the current value, or the invested amount when unset.
func (i Investment) Current() decimal.Decimal {
	if i.CurrentValue.Valid {
		return i.CurrentValue.Decimal
	}
	return i.Amount
}

// DefaultBudgets is the ceiling set seeded for a fresh tracker.
func DefaultBudgets() Budgets {
	return Budgets{
		Food:          decimal.NewFromInt(10000),
		Transport:     decimal.NewFromInt(5000),
		Shopping:      decimal.NewFromInt(8000),
		Bills:         decimal.NewFromInt(15000),
		Entertainment: decimal.NewFromInt(5000),
	}
}

// Categories returns the budgeted categories in display order.
func (b Budgets) Categories() []Category {
	out := make([]Category, 0, len(b))
	for _, c := range categories {
		if _, ok := b[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (b Budgets) Clone() Budgets {
	out := make(Budgets, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (b Budgets) Validate() error {
	for c, v := range b {
		if !c.Valid() {
			return ErrInvalidCategory
		}
		if v.IsNegative() {
			return ErrInvalidAmount
		}
	}
	return nil
}

func DefaultSettings() Settings {
	return Settings{Theme: Light, AccountBalance: decimal.Zero}
}

func (s Settings) Validate() error {
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		return err
	}
	if s.AccountBalance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}
