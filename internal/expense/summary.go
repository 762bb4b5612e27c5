package expense

// Summary is a read-time view over the expense collection. It is recomputed
// after every mutation and never stored on its own.
type Summary struct {
	TotalAmount   float64
	UserOwes      float64
	UserOwed      float64
	PendingCount  int
	ApprovedCount int
	DisputedCount int
	PaidCount     int
}

// Summarize computes a summary locally when the server does not supply one.
// Only pending and approved expenses move money between the parents: paid
// expenses are settled and disputed ones are frozen until resolved.
//
// viewerRatio resolves the viewer's percentage of a split; a nil resolver
// falls back to an even split.
func Summarize(viewerEmail string, viewerRatio func(SplitRatio) float64, expenses []Expense) Summary {
	var s Summary
	for _, e := range expenses {
		s.TotalAmount += e.Amount
		switch e.Status {
		case StatusPending:
			s.PendingCount++
		case StatusApproved:
			s.ApprovedCount++
		case StatusDisputed:
			s.DisputedCount++
		case StatusPaid:
			s.PaidCount++
		}

		if e.Status != StatusPending && e.Status != StatusApproved {
			continue
		}
		ratio := 50.0
		if viewerRatio != nil {
			ratio = viewerRatio(e.SplitRatio)
		}
		if IsPayer(viewerEmail, e) {
			s.UserOwed += PartnerShare(e.Amount, ratio)
		} else {
			s.UserOwes += Share(e.Amount, ratio)
		}
	}
	return s
}
