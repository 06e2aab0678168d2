package common

// WipeByteArray overwrites b with zeros so that passwords read from the
// terminal do not linger in memory. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
