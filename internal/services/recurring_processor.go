package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// RecurringProcessor creates occurrences of recurring expenses. Any expense
// marked recurring acts as a template; generated occurrences are plain
// expenses pointing back at it through RecurringFrom, and the template
// remembers the date of the last one it produced.
type RecurringProcessor struct {
	tracker *Tracker
}

func NewRecurringProcessor(tracker *Tracker) *RecurringProcessor {
	return &RecurringProcessor{tracker: tracker}
}

// ProcessDue creates at most one occurrence per due template, dated now.
// Failures on one template are logged and do not stop the others.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.tracker == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.DateOf(now)
	snap := p.tracker.Snapshot()

	last := make(map[string]core.Date)
	var templates []core.Expense
	for _, e := range snap.Expenses {
		if e.IsRecurring {
			templates = append(templates, e)
		}
		if e.RecurringFrom != "" {
			if d, ok := last[e.RecurringFrom]; !ok || e.Date.After(d) {
				last[e.RecurringFrom] = e.Date
			}
		}
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"templates", len(templates),
		"processing_date", today.String())

	processed := 0
	for _, tpl := range templates {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		checker, err := GetDuenessChecker(tpl.RecurringFrequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring expense", "id", tpl.ID, "error", err)
			continue
		}

		prev := lastRun(tpl, last)
		if !checker.IsDue(prev, today, tpl.Date) {
			continue
		}

		occ := core.Expense{
			Amount:   tpl.Amount,
			Category: tpl.Category,
			Date:     today,
			Notes:    tpl.Notes,
			Tags:     tpl.Tags,
		}
		created, err := p.tracker.AddOccurrence(ctx, tpl.ID, occ)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create expense from recurring template",
				"recurring_id", tpl.ID,
				"error", err)
			continue
		}

		processed++
		slog.InfoContext(ctx, "Created expense from recurring template",
			"recurring_id", tpl.ID,
			"expense_id", created.ID,
			"amount", created.Amount.String(),
			"frequency", tpl.RecurringFrequency)
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}

// lastRun is the latest of the template's recorded generation date and its
// newest linked occurrence, or the template's own date when neither exists.
func lastRun(tpl core.Expense, linked map[string]core.Date) core.Date {
	prev := tpl.Date
	if tpl.LastGenerated.After(prev) {
		prev = tpl.LastGenerated
	}
	if d, ok := linked[tpl.ID]; ok && d.After(prev) {
		prev = d
	}
	return prev
}
