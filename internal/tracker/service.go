// Package tracker coordinates the shared-expense workflow for one
// authenticated viewer on top of the remote expense API.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	appErrors "github.com/carolinadevia11/coparently/errors"
	"github.com/carolinadevia11/coparently/internal/api"
	"github.com/carolinadevia11/coparently/internal/expense"
	"github.com/carolinadevia11/coparently/internal/family"
	"github.com/carolinadevia11/coparently/internal/receipt"
	"github.com/carolinadevia11/coparently/logging"
)

// API is the slice of the remote service the tracker consumes.
type API interface {
	ListExpenses(ctx context.Context) ([]expense.Expense, error)
	GetSummary(ctx context.Context) (*expense.Summary, error)
	CreateExpense(ctx context.Context, req api.CreateExpenseRequest) (expense.Expense, error)
	UpdateExpense(ctx context.Context, id string, req api.UpdateExpenseRequest) (expense.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	CurrentUser(ctx context.Context) (api.User, error)
	FamilyProfile(ctx context.Context) (family.Profile, error)
}

// Tracker drives expenses through their lifecycle for one viewer. It owns
// only an in-memory snapshot of the last fetch, replaced wholesale after
// every successful mutation; nothing is patched in place.
type Tracker struct {
	api API

	mu          sync.Mutex
	viewerEmail string
	resolver    *family.Resolver
	expenses    []expense.Expense
	summary     expense.Summary
}

func New(a API) *Tracker {
	return &Tracker{api: a}
}

// Start resolves the viewer and family context, then loads the first
// snapshot. A missing family record only degrades label resolution.
func (t *Tracker) Start(ctx context.Context) error {
	user, err := t.api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("resolve current user: %w", err)
	}
	profile, err := t.api.FamilyProfile(ctx)
	if err != nil {
		logging.Logger.WithError(err).Warn("family profile unavailable, using fallback labels")
		profile = family.Profile{}
	}

	t.mu.Lock()
	t.viewerEmail = user.Email
	t.resolver = family.NewResolver(user.Email, profile)
	t.mu.Unlock()

	t.Refresh(ctx)
	return nil
}

// Refresh replaces the snapshot with a fresh fetch. Fetch failures degrade
// to the empty state instead of surfacing: the view stays calm and the next
// user action retries. The mutex keeps at most one fetch pair outstanding.
func (t *Tracker) Refresh(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	expenses, err := t.api.ListExpenses(ctx)
	if err != nil {
		logging.Logger.WithError(err).Warn("expense fetch failed, showing empty state")
		expenses = nil
	}

	summary, err := t.api.GetSummary(ctx)
	if err != nil {
		logging.Logger.WithError(err).Warn("summary fetch failed, computing locally")
		summary = nil
	}
	if summary == nil {
		local := expense.Summarize(t.viewerEmail, t.ratioFunc(), expenses)
		summary = &local
	}

	t.expenses = expenses
	t.summary = *summary
}

func (t *Tracker) ratioFunc() func(expense.SplitRatio) float64 {
	if t.resolver == nil {
		return nil
	}
	return t.resolver.ViewerRatio
}

// CreateExpenseInput is everything a parent supplies on the new-expense form.
type CreateExpenseInput struct {
	Description string
	Amount      float64
	Category    expense.Category
	Date        time.Time
	ReceiptPath string // optional local file to attach
	ChildrenIDs []string
}

func (in CreateExpenseInput) validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", appErrors.ErrValidation)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", appErrors.ErrValidation)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", appErrors.ErrValidation, in.Category)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", appErrors.ErrValidation)
	}
	return nil
}

// Create records a new expense. Validation runs before anything leaves the
// process, and an optional receipt is encoded fully before the request goes
// out; a partial encoding is never transmitted.
func (t *Tracker) Create(ctx context.Context, in CreateExpenseInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	req := api.CreateExpenseRequest{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    string(in.Category),
		Date:        in.Date.Format("2006-01-02"),
		ChildrenIDs: in.ChildrenIDs,
	}
	if in.ReceiptPath != "" {
		att, err := receipt.EncodeFile(in.ReceiptPath)
		if err != nil {
			return fmt.Errorf("encode receipt: %w", err)
		}
		req.ReceiptFileName = att.FileName
		req.ReceiptContent = att.Content
	}

	if _, err := t.api.CreateExpense(ctx, req); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	t.Refresh(ctx)
	return nil
}

// Approve accepts a pending expense fronted by the other parent.
func (t *Tracker) Approve(ctx context.Context, id string) error {
	return t.transition(ctx, id, expense.ActionApprove, "")
}

// Dispute contests a pending expense. A reason is required before any
// request is issued.
func (t *Tracker) Dispute(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a dispute needs a reason", appErrors.ErrValidation)
	}
	return t.transition(ctx, id, expense.ActionDispute, reason)
}

// MarkPaid settles an approved expense.
func (t *Tracker) MarkPaid(ctx context.Context, id string) error {
	return t.transition(ctx, id, expense.ActionMarkPaid, "")
}

// ResolveDispute returns a disputed expense to pending, restarting the
// approval cycle.
func (t *Tracker) ResolveDispute(ctx context.Context, id string) error {
	return t.transition(ctx, id, expense.ActionResolve, "")
}

func (t *Tracker) transition(ctx context.Context, id string, action expense.Action, reason string) error {
	e, err := t.find(id)
	if err != nil {
		return err
	}
	if err := expense.Authorize(t.ViewerEmail(), e, action); err != nil {
		return err
	}

	target, _ := action.Target()
	req := api.UpdateExpenseRequest{Status: string(target)}
	if action == expense.ActionDispute {
		req.DisputeReason = strings.TrimSpace(reason)
	}

	// A failed mutation leaves the snapshot untouched; only success refreshes.
	if _, err := t.api.UpdateExpense(ctx, id, req); err != nil {
		return fmt.Errorf("%s expense: %w", action, err)
	}
	t.Refresh(ctx)
	return nil
}

// Delete removes an expense. Only the payer may delete, and only while the
// expense is still pending.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	e, err := t.find(id)
	if err != nil {
		return err
	}
	if err := expense.Authorize(t.ViewerEmail(), e, expense.ActionDelete); err != nil {
		return err
	}
	if err := t.api.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	t.Refresh(ctx)
	return nil
}

func (t *Tracker) find(id string) (expense.Expense, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return expense.Expense{}, fmt.Errorf("%w: expense %q", appErrors.ErrNotFound, id)
}

// Expenses returns a copy of the current snapshot.
func (t *Tracker) Expenses() []expense.Expense {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]expense.Expense(nil), t.expenses...)
}

// Summary returns the current summary view.
func (t *Tracker) Summary() expense.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

// ViewerEmail returns the authenticated viewer's identity.
func (t *Tracker) ViewerEmail() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewerEmail
}

// PayerLabel renders a paidBy identity for display.
func (t *Tracker) PayerLabel(email string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resolver == nil {
		return email
	}
	return t.resolver.PayerLabel(email)
}

// ViewerShare is the viewer's monetary share of an expense under its split
// ratio.
func (t *Tracker) ViewerShare(e expense.Expense) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ratio := 50.0
	if t.resolver != nil {
		ratio = t.resolver.ViewerRatio(e.SplitRatio)
	}
	return expense.Share(e.Amount, ratio)
}

// PartnerShare is the other parent's share of an expense.
func (t *Tracker) PartnerShare(e expense.Expense) float64 {
	return e.Amount - t.ViewerShare(e)
}
