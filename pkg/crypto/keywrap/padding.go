package keywrap

import (
	"crypto/aes"
	"crypto/subtle"
	"encoding/binary"
)

// paddedIVPrefix is the alternative initial value constant from RFC 5649
// section 3; the remaining 4 bytes carry the plaintext length.
var paddedIVPrefix = [4]byte{0xA6, 0x59, 0x59, 0xA6}

// WrapWithPadding wraps plaintext of any length from 1 to 2^32-1 bytes
// under kek per RFC 5649. Payloads of 8 bytes or fewer produce a single
// 16-byte AES block; longer payloads are zero-padded to a multiple of 8
// and run through the chaining transform with the length-bearing initial
// value.
func WrapWithPadding(kek, plaintext []byte) ([]byte, error) {
	if err := checkKEK(kek); err != nil {
		return nil, err
	}
	if len(plaintext) == 0 || uint64(len(plaintext)) > 1<<32-1 {
		return nil, InputLengthError(len(plaintext))
	}
	var iv [8]byte
	copy(iv[:4], paddedIVPrefix[:])
	binary.BigEndian.PutUint32(iv[4:], uint32(len(plaintext)))

	padded := make([]byte, (len(plaintext)+7)/8*8)
	copy(padded, plaintext)

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	if len(padded) == 8 {
		// single-block shortcut: one direct encryption of iv || key
		out := make([]byte, 16)
		copy(out[:8], iv[:])
		copy(out[8:], padded)
		block.Encrypt(out, out)
		return out, nil
	}
	return wrapBlocks(block, iv[:], padded), nil
}

// UnwrapWithPadding reverses WrapWithPadding. It verifies the alternative
// initial value constant and the zero padding, and truncates the recovered
// material to the declared length. Corruption or a wrong KEK yields
// ErrIntegrityCheckFailed; an out-of-range declared length yields
// ErrLengthFieldInconsistent.
func UnwrapWithPadding(kek, wrapped []byte) ([]byte, error) {
	if err := checkKEK(kek); err != nil {
		return nil, err
	}
	var padded, iv []byte
	switch {
	case len(wrapped) == 16:
		block, err := aes.NewCipher(kek)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 16)
		block.Decrypt(buf, wrapped)
		iv, padded = buf[:8], buf[8:]
	case len(wrapped)%8 == 0 && len(wrapped) >= 24:
		var err error
		padded, iv, err = UnwrapAndIV(kek, wrapped)
		if err != nil {
			return nil, err
		}
	default:
		return nil, InputLengthError(len(wrapped))
	}

	if subtle.ConstantTimeCompare(iv[:4], paddedIVPrefix[:]) != 1 {
		return nil, ErrIntegrityCheckFailed
	}
	keyLen := binary.BigEndian.Uint32(iv[4:])
	if uint64(keyLen) > uint64(len(padded)) || uint64(keyLen) <= uint64(len(padded)-8) {
		return nil, ErrLengthFieldInconsistent
	}
	// RFC 5649 section 3: the discarded octets must all be zero.
	var pad byte
	for _, b := range padded[keyLen:] {
		pad |= b
	}
	if subtle.ConstantTimeByteEq(pad, 0) != 1 {
		return nil, ErrIntegrityCheckFailed
	}
	return padded[:keyLen], nil
}
