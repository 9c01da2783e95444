package core

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Persisted and API records use camelCase keys, plain JSON numbers and
// yyyy-MM-dd dates. Decoding is lenient so hand-edited blobs still load.

func init() {
	// API and persisted amounts are plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type expenseJSON struct {
	ID                 string          `json:"id"`
	Amount             json.RawMessage `json:"amount"`
	Category           string          `json:"category"`
	Date               string          `json:"date"`
	Notes              string          `json:"notes"`
	Tags               []string        `json:"tags"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency string          `json:"recurringFrequency,omitempty"`
	RecurringFrom      string          `json:"recurringFrom,omitempty"`
	LastGenerated      string          `json:"lastGenerated,omitempty"`
	CreatedAt          string          `json:"createdAt,omitempty"`
}

type investmentJSON struct {
	ID           string          `json:"id"`
	Amount       json.RawMessage `json:"amount"`
	CurrentValue json.RawMessage `json:"currentValue,omitempty"`
	Type         string          `json:"type"`
	Date         string          `json:"date"`
	Purpose      string          `json:"purpose,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
}

type settingsJSON struct {
	Theme          string          `json:"theme"`
	AccountBalance json.RawMessage `json:"accountBalance"`
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e Expense) MarshalJSON() ([]byte, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(expenseJSON{
		ID:                 e.ID,
		Amount:             numberJSON(e.Amount),
		Category:           string(e.Category),
		Date:               e.Date.String(),
		Notes:              e.Notes,
		Tags:               tags,
		IsRecurring:        e.IsRecurring,
		RecurringFrequency: string(e.RecurringFrequency),
		RecurringFrom:      e.RecurringFrom,
		LastGenerated:      optionalDateJSON(e.LastGenerated),
		CreatedAt:          timestampJSON(e.CreatedAt),
	})
}

// UnmarshalJSON validates on load: amounts are coerced, unknown categories
// become Other, and only an unreadable date rejects the record.
func (e *Expense) UnmarshalJSON(b []byte) error {
	var raw expenseJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	freq, _ := ParseFrequency(raw.RecurringFrequency)
	if raw.IsRecurring && freq == "" {
		freq = Monthly
	}
	// An unreadable bookkeeping date only loses the bookkeeping.
	last, _ := ParseDate(raw.LastGenerated)
	*e = Expense{
		ID:                 raw.ID,
		Amount:             CoerceAmount(raw.Amount),
		Category:           ParseCategory(raw.Category),
		Date:               date,
		Notes:              raw.Notes,
		Tags:               cleanTags(raw.Tags),
		IsRecurring:        raw.IsRecurring,
		RecurringFrequency: freq,
		RecurringFrom:      raw.RecurringFrom,
		LastGenerated:      last,
		CreatedAt:          parseTimestamp(raw.CreatedAt),
	}
	return nil
}

func (i Investment) MarshalJSON() ([]byte, error) {
	return json.Marshal(investmentJSON{
		ID:           i.ID,
		Amount:       numberJSON(i.Amount),
		CurrentValue: numberJSON(i.Current()),
		Type:         string(i.Type),
		Date:         i.Date.String(),
		Purpose:      i.Purpose,
		Notes:        i.Notes,
		CreatedAt:    timestampJSON(i.CreatedAt),
	})
}

func (i *Investment) UnmarshalJSON(b []byte) error {
	var raw investmentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	var current decimal.NullDecimal
	if d, ok := decodeNumber(raw.CurrentValue); ok && !d.IsNegative() {
		current = decimal.NewNullDecimal(d)
	}
	*i = Investment{
		ID:           raw.ID,
		Amount:       CoerceAmount(raw.Amount),
		CurrentValue: current,
		Type:         ParseInvestmentType(raw.Type),
		Date:         date,
		Purpose:      raw.Purpose,
		Notes:        raw.Notes,
		CreatedAt:    parseTimestamp(raw.CreatedAt),
	}
	return nil
}

func (b Budgets) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(b))
	for c, v := range b {
		out[string(c)] = numberJSON(v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON folds unknown category names into Other by summing them.
func (b *Budgets) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Budgets, len(raw))
	for name, v := range raw {
		c := ParseCategory(name)
		out[c] = out[c].Add(CoerceAmount(v))
	}
	*b = out
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(settingsJSON{
		Theme:          string(s.Theme),
		AccountBalance: numberJSON(s.AccountBalance),
	})
}

func (s *Settings) UnmarshalJSON(b []byte) error {
	var raw settingsJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	theme, err := ParseTheme(raw.Theme)
	if err != nil {
		theme = Light
	}
	*s = Settings{Theme: theme, AccountBalance: CoerceAmount(raw.AccountBalance)}
	return nil
}

func numberJSON(d decimal.Decimal) json.RawMessage {
	return json.RawMessage(d.String())
}

func optionalDateJSON(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func timestampJSON(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// cleanTags trims tags and drops empty ones, the same way the entry form splits them.
func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags turns the comma separated form input into a tag list.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return cleanTags(strings.Split(s, ","))
}
