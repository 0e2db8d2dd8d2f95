package core

// CompareArrays reports whether a and b have the same length and every
// matrix equals the one at the same index in the other slice.
func CompareArrays(a, b []*Matrix) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
