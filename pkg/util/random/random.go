// Package random supplies crypto/rand bytes for tests and fixtures.
package random

import "crypto/rand"

// Bytes returns n random bytes. crypto/rand.Read never fails on
// supported platforms.
func Bytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}
