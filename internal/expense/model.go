package expense

import (
	"fmt"
	"math"
	"strings"
	"time"

	appErrors "github.com/carolinadevia11/coparently/errors"
)

// Status is the canonical lifecycle status of an expense. Stable values;
// these exact strings travel on the wire.
type Status string

const (
	StatusPending  Status = "pending"  // waiting for the other parent
	StatusApproved Status = "approved" // accepted, reimbursement due
	StatusDisputed Status = "disputed" // contested, frozen until resolved
	StatusPaid     Status = "paid"     // settled, terminal
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDisputed, StatusPaid:
		return true
	}
	return false
}

func ParseStatus(input string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(input)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", appErrors.ErrValidation, input)
	}
	return s, nil
}

type Category string

const (
	CategoryMedical    Category = "medical"
	CategoryEducation  Category = "education"
	CategoryActivities Category = "activities"
	CategoryClothing   Category = "clothing"
	CategoryOther      Category = "other"
)

var allCategories = []Category{
	CategoryMedical,
	CategoryEducation,
	CategoryActivities,
	CategoryClothing,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory canonicalizes a category string. Unknown values map to
// "other" with ok=false so a stale client never breaks the list view.
func ParseCategory(input string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(input)))
	if c.Valid() {
		return c, true
	}
	return CategoryOther, false
}

// ratioTolerance absorbs float noise when checking the 100% invariant.
const ratioTolerance = 0.01

// SplitRatio is the percentage allocation between the two parents, fixed at
// creation time from the custody agreement.
type SplitRatio struct {
	Parent1 float64
	Parent2 float64
}

// EvenSplit is the fallback when a viewer cannot be matched to the family
// record.
func EvenSplit() SplitRatio {
	return SplitRatio{Parent1: 50, Parent2: 50}
}

func (r SplitRatio) Validate() error {
	if r.Parent1 < 0 || r.Parent2 < 0 {
		return fmt.Errorf("%w: split ratio parts must be non-negative", appErrors.ErrValidation)
	}
	if math.Abs(r.Parent1+r.Parent2-100) > ratioTolerance {
		return fmt.Errorf("%w: split ratio must sum to 100, got %.2f", appErrors.ErrValidation, r.Parent1+r.Parent2)
	}
	return nil
}

// Expense is one reimbursable household cost shared between the parents.
type Expense struct {
	ID          string
	Description string
	Amount      float64 // positive, USD
	Category    Category
	Date        time.Time
	PaidBy      string // email of the parent who fronted the cost
	Status      Status
	SplitRatio  SplitRatio

	// Set once a receipt is attached.
	ReceiptURL      string
	ReceiptFileName string

	// Set while or after the expense is disputed.
	DisputeReason    string
	DisputeCreatedAt time.Time
	DisputeCreatedBy string
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description is required", appErrors.ErrValidation)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", appErrors.ErrValidation)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", appErrors.ErrValidation, e.Category)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", appErrors.ErrValidation)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", appErrors.ErrValidation, e.Status)
	}
	if err := e.SplitRatio.Validate(); err != nil {
		return err
	}
	if e.Status == StatusDisputed && strings.TrimSpace(e.DisputeReason) == "" {
		return fmt.Errorf("%w: a disputed expense must carry a dispute reason", appErrors.ErrValidation)
	}
	return nil
}

func (e Expense) HasReceipt() bool {
	return e.ReceiptURL != ""
}
