package hashtable

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n <= 2 || n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// PrimeAtLeast returns the smallest prime no smaller than n.
func PrimeAtLeast(n int) int {
	if n <= 2 {
		return 2
	}
	p := 3
	for p < n || !IsPrime(p) {
		p += 2
	}
	return p
}

// charValue maps a byte into 0..31. Only lowercase letters, the apostrophe,
// the three stoppers and the space are distinguished; everything else is 0.
func charValue(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 1
	case c == '.':
		return 27
	case c == '!':
		return 28
	case c == '?':
		return 29
	case c == '\'':
		return 30
	case c == ' ':
		return 31
	default:
		return 0
	}
}

// Hash treats key as a base-32 number, one digit per byte, and evaluates it
// modulo modulus with Horner's method.
func Hash(key string, modulus int) int {
	h := 0
	for i := 0; i < len(key); i++ {
		h = (32*h + charValue(key[i])) % modulus
	}
	return h
}
