package bitstream

import "math"

// RationalScale computes floor(n/d)*s + ((n mod d)*s)/d, that is n scaled
// by s/d, without the precision loss of a plain floating-point n*s/d or
// overflowing when n*s would not fit in 64 bits. It reports false when d is
// zero or when the result does not fit in an int64.
func RationalScale(n, d, s int64) (int64, bool) {
	if d == 0 {
		return 0, false
	}

	// Normalize so d is positive; fold its sign into n instead.
	if d < 0 {
		n, d = -n, -d
	}

	whole := n / d
	rem := n % d

	// Go's division truncates toward zero; move a negative remainder into
	// [0, d) so that whole is floor(n/d).
	if rem < 0 {
		whole--
		rem += d
	}

	wholeScaled, ok := mulOverflows(whole, s)
	if !ok {
		return 0, false
	}

	remScaled, ok := mulOverflows(rem, s)
	if !ok {
		return 0, false
	}

	remScaled /= d

	result := wholeScaled + remScaled
	// Overflow check for the final addition: only a same-sign addition can
	// overflow, and it did if the sum's sign differs from its operands'.
	if wholeScaled != 0 && remScaled != 0 {
		sameSign := (wholeScaled > 0) == (remScaled > 0)
		if sameSign && (result > 0) != (wholeScaled > 0) {
			return 0, false
		}
	}

	return result, true
}

// mulOverflows multiplies a*b, reporting false if the mathematical result
// does not fit in an int64.
func mulOverflows(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	result := a * b
	if result/b != a {
		return 0, false
	}

	if result == math.MinInt64 && (a == -1 || b == -1) {
		return 0, false
	}

	return result, true
}
