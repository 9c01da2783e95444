package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

const headerRequestID = "X-Request-ID"

// errBadRequest marks malformed bodies and parameters.
var errBadRequest = errors.New("bad request")

type expenseRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category"`
	Date               string          `json:"date"`
	Notes              string          `json:"notes"`
	Tags               tagList         `json:"tags"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency string          `json:"recurringFrequency"`
}

func (req expenseRequest) toExpense() (core.Expense, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	var freq core.Frequency
	if req.IsRecurring && strings.TrimSpace(req.RecurringFrequency) != "" {
		if freq, err = core.ParseFrequency(req.RecurringFrequency); err != nil {
			return core.Expense{}, err
		}
	}
	return core.Expense{
		Amount:             req.Amount,
		Category:           core.ParseCategory(req.Category),
		Date:               date,
		Notes:              sanitizeInput(req.Notes),
		Tags:               []string(req.Tags),
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: freq,
	}, nil
}

type investmentRequest struct {
	Amount       decimal.Decimal     `json:"amount"`
	CurrentValue decimal.NullDecimal `json:"currentValue"`
	Type         string              `json:"type"`
	Date         string              `json:"date"`
	Purpose      string              `json:"purpose"`
	Notes        string              `json:"notes"`
}

func (req investmentRequest) toInvestment() (core.Investment, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Investment{}, err
	}
	return core.Investment{
		Amount:       req.Amount,
		CurrentValue: req.CurrentValue,
		Type:         core.ParseInvestmentType(req.Type),
		Date:         date,
		Purpose:      sanitizeInput(req.Purpose),
		Notes:        sanitizeInput(req.Notes),
	}, nil
}

// tagList accepts either a JSON array of tags or the comma separated text
// the entry form sends.
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*t = core.SplitTags(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings")
	}
	*t = list
	return nil
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", errBadRequest)
	}
	return nil
}

// refDate reads the optional ?date= reference day, defaulting to today.
func refDate(r *http.Request, now time.Time) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	if v == "" {
		return core.DateOf(now), nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: invalid date %q", errBadRequest, v)
	}
	return d, nil
}

// parseCategory is strict: unlike stored data, API paths and filters must
// name a known category.
func parseCategory(s string) (core.Category, error) {
	c := core.ParseCategory(s)
	if !strings.EqualFold(strings.TrimSpace(s), string(c)) {
		return "", core.ErrInvalidCategory
	}
	return c, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

// withRequestID makes sure every request carries an X-Request-ID and echoes
// it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 64 {
			id = generateRequestID()
			r.Header.Set(headerRequestID, id)
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func requestIDFromHeader(r *http.Request) string {
	return r.Header.Get(headerRequestID)
}

// detached keeps request values but ignores client cancellation.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
