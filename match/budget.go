package match

// BudgetScore measures how well two rent budgets line up: intersection
// length over union length of the two closed intervals. Identical ranges
// score 1.0, disjoint ranges 0.0, and partial overlap degrades smoothly in
// between, so closely aligned budgets beat a bare overlap. Two identical
// single-point ranges have a zero-width union and score 1.0 by convention.
func BudgetScore(aMin, aMax, bMin, bMax int) float64 {
	union := max(aMax, bMax) - min(aMin, bMin)
	if union == 0 {
		return 1
	}
	overlap := min(aMax, bMax) - max(aMin, bMin)
	if overlap < 0 {
		overlap = 0
	}
	return float64(overlap) / float64(union)
}
