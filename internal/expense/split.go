package expense

// Share returns the monetary share of amount under a percentage ratio.
// Arithmetic stays in plain float64; only the display formatter rounds.
func Share(amount, ratio float64) float64 {
	return amount * ratio / 100
}

// PartnerShare is the complement of Share, so the two always sum to amount.
func PartnerShare(amount, ratio float64) float64 {
	return amount - Share(amount, ratio)
}
