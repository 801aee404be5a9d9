// Package insights implements the monthly financial-health pipeline:
// transaction aggregation, prompt assembly and the cached, quota-gated
// generation orchestrator with its fallback ladder.
package insights

import (
	"fmt"
	"sort"

	"github.com/hareru-app/backend/internal/model"
)

// CategoryAmount is one category's expense total.
type CategoryAmount struct {
	Category string
	Amount   int64
}

// WeeklyBucket is the expense total for one fixed week-of-month range.
type WeeklyBucket struct {
	Label  string
	Amount int64
}

// PeriodSummary is the derived aggregate for one month. It is ephemeral,
// rebuilt on every uncached request, and ordered deterministically so the
// rendered prompt is reproducible byte for byte.
type PeriodSummary struct {
	YearMonth        string
	TotalSpending    int64
	TotalIncome      int64
	Categories       []CategoryAmount // expense totals, descending by amount
	Weekly           [4]WeeklyBucket
	TransactionCount int
}

// Aggregate builds the period summary from a month's transactions. Expense
// entries feed the totals, category and weekly breakdowns; income entries
// are summed separately for context only. Category keys pass through
// verbatim, without normalization.
func Aggregate(entries []*model.Transaction, yearMonth string) (*PeriodSummary, error) {
	lastDay, err := model.DaysIn(yearMonth)
	if err != nil {
		return nil, err
	}
	_, month, err := model.ParseYearMonth(yearMonth)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		YearMonth:        yearMonth,
		TransactionCount: len(entries),
	}
	m := int(month)
	summary.Weekly = [4]WeeklyBucket{
		{Label: fmt.Sprintf("Week 1 (%d/1-%d/7)", m, m)},
		{Label: fmt.Sprintf("Week 2 (%d/8-%d/14)", m, m)},
		{Label: fmt.Sprintf("Week 3 (%d/15-%d/21)", m, m)},
		{Label: fmt.Sprintf("Week 4 (%d/22-%d/%d)", m, m, lastDay)},
	}

	byCategory := make(map[string]int64)
	for _, entry := range entries {
		if entry.Type == model.TransactionIncome {
			summary.TotalIncome += entry.Amount
			continue
		}
		if entry.Type != model.TransactionExpense {
			continue
		}

		summary.TotalSpending += entry.Amount
		byCategory[entry.Category] += entry.Amount

		// A day outside all four ranges cannot occur for a correctly
		// filtered fetch; such an entry still counts in the totals above
		// but is dropped from the weekly view.
		if idx := weekIndex(entry.Date.Day(), lastDay); idx >= 0 {
			summary.Weekly[idx].Amount += entry.Amount
		}
	}

	summary.Categories = make([]CategoryAmount, 0, len(byCategory))
	for cat, amount := range byCategory {
		summary.Categories = append(summary.Categories, CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Amount != summary.Categories[j].Amount {
			return summary.Categories[i].Amount > summary.Categories[j].Amount
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	return summary, nil
}

// weekIndex maps a day of month onto the fixed buckets [1-7], [8-14],
// [15-21], [22-lastDay]. Returns -1 for a day outside the month.
func weekIndex(day, lastDay int) int {
	switch {
	case day >= 1 && day <= 7:
		return 0
	case day <= 14:
		return 1
	case day <= 21:
		return 2
	case day <= lastDay:
		return 3
	default:
		return -1
	}
}

// hasWeeklyData reports whether any weekly bucket is non-zero.
func (s *PeriodSummary) hasWeeklyData() bool {
	for _, w := range s.Weekly {
		if w.Amount != 0 {
			return true
		}
	}
	return false
}
