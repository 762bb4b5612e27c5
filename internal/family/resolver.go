// Package family resolves expense identities against the two-parent family
// record. The record is owned by the profile service; this package only
// reads it.
package family

import (
	"strings"

	"github.com/carolinadevia11/coparently/internal/expense"
)

// Member is one parent on the family profile.
type Member struct {
	Email     string
	FirstName string
}

// Profile is the two-parent family record. Parent2 stays nil until the
// second parent accepts the link invitation.
type Profile struct {
	Parent1 *Member
	Parent2 *Member
}

// Resolver maps payer identities onto display labels and split percentages
// for one authenticated viewer.
type Resolver struct {
	viewerEmail string
	profile     Profile
}

func NewResolver(viewerEmail string, profile Profile) *Resolver {
	return &Resolver{viewerEmail: viewerEmail, profile: profile}
}

// PayerLabel renders a paidBy email for display: the viewer's own identity
// becomes "You", a matching parent becomes their first name, anything else
// falls back to the raw email.
func (r *Resolver) PayerLabel(email string) string {
	if strings.EqualFold(email, r.viewerEmail) {
		return "You"
	}
	for _, m := range []*Member{r.profile.Parent1, r.profile.Parent2} {
		if m != nil && strings.EqualFold(m.Email, email) && m.FirstName != "" {
			return m.FirstName
		}
	}
	return email
}

// ViewerRatio returns the viewer's percentage of a split. An unmatched
// viewer, including one on a half-populated profile, gets an even split.
func (r *Resolver) ViewerRatio(ratio expense.SplitRatio) float64 {
	if r.profile.Parent1 != nil && strings.EqualFold(r.profile.Parent1.Email, r.viewerEmail) {
		return ratio.Parent1
	}
	if r.profile.Parent2 != nil && strings.EqualFold(r.profile.Parent2.Email, r.viewerEmail) {
		return ratio.Parent2
	}
	return 50
}
