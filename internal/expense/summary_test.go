package expense

import (
	"math"
	"testing"
)

func ratio6040(viewer string) func(SplitRatio) float64 {
	// parent1 view of every split
	return func(r SplitRatio) float64 {
		if viewer == payerEmail {
			return r.Parent1
		}
		return r.Parent2
	}
}

func TestSummarizeEmptyCollection(t *testing.T) {
	s := Summarize(payerEmail, nil, nil)
	if s != (Summary{}) {
		t.Errorf("empty collection should produce the zero summary, got %+v", s)
	}
}

func TestSummarizeCountsAndTotals(t *testing.T) {
	expenses := []Expense{
		// Viewer (parent1, 60%) fronted this pending expense: partner owes 40.
		{ID: "1", Amount: 100, PaidBy: payerEmail, Status: StatusPending, SplitRatio: SplitRatio{60, 40}},
		// Partner fronted this approved expense: viewer owes 60% of 50 = 30.
		{ID: "2", Amount: 50, PaidBy: otherEmail, Status: StatusApproved, SplitRatio: SplitRatio{60, 40}},
		// Settled and frozen expenses count but move no money.
		{ID: "3", Amount: 200, PaidBy: otherEmail, Status: StatusPaid, SplitRatio: SplitRatio{60, 40}},
		{ID: "4", Amount: 75, PaidBy: payerEmail, Status: StatusDisputed, SplitRatio: SplitRatio{60, 40}, DisputeReason: "wrong amount"},
	}

	s := Summarize(payerEmail, ratio6040(payerEmail), expenses)

	if math.Abs(s.TotalAmount-425) > tolerance {
		t.Errorf("TotalAmount = %v, want 425", s.TotalAmount)
	}
	if s.PendingCount != 1 || s.ApprovedCount != 1 || s.DisputedCount != 1 || s.PaidCount != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 1 each",
			s.PendingCount, s.ApprovedCount, s.DisputedCount, s.PaidCount)
	}
	if math.Abs(s.UserOwed-40) > tolerance {
		t.Errorf("UserOwed = %v, want 40", s.UserOwed)
	}
	if math.Abs(s.UserOwes-30) > tolerance {
		t.Errorf("UserOwes = %v, want 30", s.UserOwes)
	}
}

// Without a ratio resolver the aggregator falls back to an even split rather
// than failing.
func TestSummarizeNilResolverFallsBackToEvenSplit(t *testing.T) {
	expenses := []Expense{
		{ID: "1", Amount: 100, PaidBy: otherEmail, Status: StatusPending, SplitRatio: SplitRatio{60, 40}},
	}
	s := Summarize(payerEmail, nil, expenses)
	if math.Abs(s.UserOwes-50) > tolerance {
		t.Errorf("UserOwes = %v, want 50 under the even fallback", s.UserOwes)
	}
}
