package keywrap

import (
	"errors"
	"strconv"
)

var (
	// ErrIntegrityCheckFailed means the recovered initial value did not
	// match its expected constant: the ciphertext was corrupted or the
	// KEK is not the one it was wrapped under. No plaintext is returned.
	ErrIntegrityCheckFailed = errors.New("keywrap: integrity check failed")

	// ErrLengthFieldInconsistent means the key length declared in a padded
	// wrapping does not fit the recovered data.
	ErrLengthFieldInconsistent = errors.New("keywrap: declared key length inconsistent with wrapped data")
)

// KeySizeError records a KEK length other than 16, 24 or 32 bytes.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "keywrap: invalid KEK size " + strconv.Itoa(int(k))
}

// InputLengthError records a plaintext or wrapped length that violates the
// block constraints of the variant invoked.
type InputLengthError int

func (e InputLengthError) Error() string {
	return "keywrap: invalid input length " + strconv.Itoa(int(e))
}
