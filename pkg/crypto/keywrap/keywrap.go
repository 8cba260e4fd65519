// Package keywrap implements the AES Key Wrap algorithm from RFC 3394 and
// its padded extension from RFC 5649.
//
// Both variants deterministically encrypt one key under another (the
// key-encrypting key, KEK) using AES in single-block mode only: no nonce,
// no separate authentication tag. Integrity comes from the initial value
// recovered on unwrap, which must match a fixed constant.
package keywrap

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
)

// defaultIV is the initial value from RFC 3394 section 2.2.3.1.
var defaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// checkKEK rejects KEK sizes AES cannot key, before any cipher work.
func checkKEK(kek []byte) error {
	switch len(kek) {
	case 16, 24, 32:
		return nil
	}
	return KeySizeError(len(kek))
}

// Wrap wraps plaintext under kek per RFC 3394 with the default initial
// value. The plaintext length must be a multiple of 8 and at least 16
// bytes; shorter or unaligned secrets belong to WrapWithPadding.
func Wrap(kek, plaintext []byte) ([]byte, error) {
	return WrapWithIV(kek, plaintext, defaultIV[:])
}

// WrapWithIV wraps plaintext under kek seeding the accumulator with a
// caller-supplied 8-byte initial value. The output is 8 bytes longer than
// the plaintext.
func WrapWithIV(kek, plaintext, iv []byte) ([]byte, error) {
	if err := checkKEK(kek); err != nil {
		return nil, err
	}
	if len(iv) != 8 {
		return nil, InputLengthError(len(iv))
	}
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, InputLengthError(len(plaintext))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	return wrapBlocks(block, iv, plaintext), nil
}

// Unwrap reverses Wrap and verifies the recovered initial value against
// the RFC 3394 constant in constant time. On mismatch it returns
// ErrIntegrityCheckFailed and no plaintext.
func Unwrap(kek, wrapped []byte) ([]byte, error) {
	plaintext, iv, err := UnwrapAndIV(kek, wrapped)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(iv, defaultIV[:]) != 1 {
		return nil, ErrIntegrityCheckFailed
	}
	return plaintext, nil
}

// UnwrapAndIV reverses the chaining transform and returns the plaintext
// together with the recovered initial value. It performs no integrity
// verification; callers that do not check the returned value themselves
// should use Unwrap or UnwrapWithPadding instead.
func UnwrapAndIV(kek, wrapped []byte) (plaintext, iv []byte, err error) {
	if err := checkKEK(kek); err != nil {
		return nil, nil, err
	}
	if len(wrapped)%8 != 0 || len(wrapped) < 24 {
		return nil, nil, InputLengthError(len(wrapped))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, nil, err
	}
	plaintext, iv = unwrapBlocks(block, wrapped)
	return plaintext, iv, nil
}

// wrapBlocks runs the RFC 3394 section 2.2.1 chaining transform. The
// plaintext length must already be validated as a positive multiple of 8.
func wrapBlocks(block cipher.Block, iv, plaintext []byte) []byte {
	n := len(plaintext) / 8
	out := make([]byte, 8+len(plaintext))
	a := out[:8]
	copy(a, iv)
	copy(out[8:], plaintext)

	var buf [16]byte
	var tb [8]byte
	var t uint64
	for j := 0; j < 6; j++ {
		for i := 1; i <= n; i++ {
			r := out[8*i : 8*i+8]
			copy(buf[:8], a)
			copy(buf[8:], r)
			block.Encrypt(buf[:], buf[:])
			// t = n*j + i, XORed big-endian into the accumulator
			t++
			binary.BigEndian.PutUint64(tb[:], t)
			subtle.XORBytes(a, buf[:8], tb[:])
			copy(r, buf[8:])
		}
	}
	return out
}

// unwrapBlocks runs the inverse transform from RFC 3394 section 2.2.2,
// returning the register blocks and the final accumulator unverified.
func unwrapBlocks(block cipher.Block, wrapped []byte) (plaintext, iv []byte) {
	n := len(wrapped)/8 - 1
	a := make([]byte, 8)
	copy(a, wrapped[:8])
	out := make([]byte, 8*n)
	copy(out, wrapped[8:])

	var buf [16]byte
	var tb [8]byte
	t := uint64(6 * n)
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			r := out[8*(i-1) : 8*i]
			binary.BigEndian.PutUint64(tb[:], t)
			subtle.XORBytes(buf[:8], a, tb[:])
			copy(buf[8:], r)
			block.Decrypt(buf[:], buf[:])
			t--
			copy(a, buf[:8])
			copy(r, buf[8:])
		}
	}
	return out, a
}
