package api

import (
	"fmt"
	"time"

	appErrors "github.com/carolinadevia11/coparently/errors"
	"github.com/carolinadevia11/coparently/internal/expense"
	"github.com/carolinadevia11/coparently/internal/family"
)

// REQUESTS START:

type CreateExpenseRequest struct {
	Description     string   `json:"description"`
	Amount          float64  `json:"amount"`
	Category        string   `json:"category"`
	Date            string   `json:"date"` // YYYY-MM-DD
	ReceiptFileName string   `json:"receipt_file_name,omitempty"`
	ReceiptContent  string   `json:"receipt_content,omitempty"`
	ChildrenIDs     []string `json:"children_ids"`
}

// UpdateExpenseRequest is a partial patch; empty fields are left untouched
// server-side.
type UpdateExpenseRequest struct {
	Status        string `json:"status,omitempty"`
	DisputeReason string `json:"dispute_reason,omitempty"`
}

// REQUESTS END:

// RESPONSES:

type splitRatioItem struct {
	Parent1 float64 `json:"parent1"`
	Parent2 float64 `json:"parent2"`
}

type expenseItem struct {
	ID               string         `json:"id"`
	Description      string         `json:"description"`
	Amount           float64        `json:"amount"`
	Category         string         `json:"category"`
	Date             string         `json:"date"`
	PaidBy           string         `json:"paid_by"`
	Status           string         `json:"status"`
	SplitRatio       splitRatioItem `json:"split_ratio"`
	ReceiptURL       string         `json:"receipt_url,omitempty"`
	ReceiptFileName  string         `json:"receipt_file_name,omitempty"`
	DisputeReason    string         `json:"dispute_reason,omitempty"`
	DisputeCreatedAt string         `json:"dispute_created_at,omitempty"`
	DisputeCreatedBy string         `json:"dispute_created_by,omitempty"`
}

type listExpensesResponse struct {
	Expenses []expenseItem `json:"expenses"`
}

type summaryItem struct {
	TotalAmount   float64 `json:"total_amount"`
	UserOwes      float64 `json:"user_owes"`
	UserOwed      float64 `json:"user_owed"`
	PendingCount  int     `json:"pending_count"`
	ApprovedCount int     `json:"approved_count"`
	DisputedCount int     `json:"disputed_count"`
	PaidCount     int     `json:"paid_count"`
}

// User is the authenticated viewer's identity record.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type memberItem struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

type familyItem struct {
	Parent1 *memberItem `json:"parent1,omitempty"`
	Parent2 *memberItem `json:"parent2,omitempty"`
}

func (it expenseItem) toExpense() (expense.Expense, error) {
	status, err := expense.ParseStatus(it.Status)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("expense %s: %w", it.ID, err)
	}
	// A stale client must not break the list view on a new category.
	category, _ := expense.ParseCategory(it.Category)

	date, err := parseDate(it.Date)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("expense %s: %w", it.ID, err)
	}

	e := expense.Expense{
		ID:          it.ID,
		Description: it.Description,
		Amount:      it.Amount,
		Category:    category,
		Date:        date,
		PaidBy:      it.PaidBy,
		Status:      status,
		SplitRatio: expense.SplitRatio{
			Parent1: it.SplitRatio.Parent1,
			Parent2: it.SplitRatio.Parent2,
		},
		ReceiptURL:       it.ReceiptURL,
		ReceiptFileName:  it.ReceiptFileName,
		DisputeReason:    it.DisputeReason,
		DisputeCreatedBy: it.DisputeCreatedBy,
	}
	if it.DisputeCreatedAt != "" {
		if at, err := parseDate(it.DisputeCreatedAt); err == nil {
			e.DisputeCreatedAt = at
		}
	}
	return e, nil
}

func (it summaryItem) toSummary() expense.Summary {
	return expense.Summary{
		TotalAmount:   it.TotalAmount,
		UserOwes:      it.UserOwes,
		UserOwed:      it.UserOwed,
		PendingCount:  it.PendingCount,
		ApprovedCount: it.ApprovedCount,
		DisputedCount: it.DisputedCount,
		PaidCount:     it.PaidCount,
	}
}

func (it familyItem) toProfile() family.Profile {
	var p family.Profile
	if it.Parent1 != nil {
		p.Parent1 = &family.Member{Email: it.Parent1.Email, FirstName: it.Parent1.FirstName}
	}
	if it.Parent2 != nil {
		p.Parent2 = &family.Member{Email: it.Parent2.Email, FirstName: it.Parent2.FirstName}
	}
	return p
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", appErrors.ErrValidation, s)
}
