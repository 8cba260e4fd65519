package keywrap

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"example.com/keywrap/pkg/util/random"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// Vectors from RFC 3394 section 4.
func TestWrapVectors(t *testing.T) {
	kek128 := "000102030405060708090A0B0C0D0E0F"
	kek192 := kek128 + "1011121314151617"
	kek256 := kek192 + "18191A1B1C1D1E1F"
	key128 := "00112233445566778899AABBCCDDEEFF"
	key192 := key128 + "0001020304050607"
	key256 := key192 + "08090A0B0C0D0E0F"

	cases := []struct {
		name               string
		kek, plain, wrapped string
	}{
		{"128kek-128key", kek128, key128, "1FA68B0A8112B447AEF34BD8FB5A7B829D3E862371D2CFE5"},
		{"192kek-128key", kek192, key128, "96778B25AE6CA435F92B5B97C050AED2468AB8A17AD84E5D"},
		{"256kek-128key", kek256, key128, "64E8C3F9CE0F5BA263E9777905818A2A93C8191E7D6E8AE7"},
		{"192kek-192key", kek192, key192, "031D33264E15D33268F24EC260743EDCE1C6C7DDEE725A936BA814915C6762D2"},
		{"256kek-192key", kek256, key192, "A8F9BC1612C68B3FF6E6F4FBE30E71E4769C8B80A32CB8958CD5D17D6B254DA1"},
		{"256kek-256key", kek256, key256, "28C9F404C4B810F4CBCCB35CFB87F8263F5786E2D80ED326CBC7F0E71A99F43BFB988B9B7A02DD21"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kek := mustHex(t, tc.kek)
			plain := mustHex(t, tc.plain)
			want := mustHex(t, tc.wrapped)

			got, err := Wrap(kek, plain)
			if err != nil {
				t.Fatalf("Wrap: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("Wrap = %X, want %X", got, want)
			}
			back, err := Unwrap(kek, want)
			if err != nil {
				t.Fatalf("Unwrap: %v", err)
			}
			if !bytes.Equal(back, plain) {
				t.Fatalf("Unwrap = %X, want %X", back, plain)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, kekLen := range []int{16, 24, 32} {
		kek := random.Bytes(kekLen)
		for ptLen := 16; ptLen <= 128; ptLen += 8 {
			plain := random.Bytes(ptLen)
			wrapped, err := Wrap(kek, plain)
			if err != nil {
				t.Fatalf("Wrap(%d-byte kek, %d-byte plain): %v", kekLen, ptLen, err)
			}
			if len(wrapped) != ptLen+8 {
				t.Fatalf("wrapped length %d, want %d", len(wrapped), ptLen+8)
			}
			back, err := Unwrap(kek, wrapped)
			if err != nil {
				t.Fatalf("Unwrap: %v", err)
			}
			if !bytes.Equal(back, plain) {
				t.Fatalf("round trip mismatch at kek=%d plain=%d", kekLen, ptLen)
			}
		}
	}
}

func TestWrapWithIVRoundTrip(t *testing.T) {
	kek := random.Bytes(32)
	iv := mustHex(t, "0011223344556677")
	plain := random.Bytes(40)

	wrapped, err := WrapWithIV(kek, plain, iv)
	if err != nil {
		t.Fatalf("WrapWithIV: %v", err)
	}
	back, gotIV, err := UnwrapAndIV(kek, wrapped)
	if err != nil {
		t.Fatalf("UnwrapAndIV: %v", err)
	}
	if !bytes.Equal(gotIV, iv) {
		t.Fatalf("recovered iv %X, want %X", gotIV, iv)
	}
	if !bytes.Equal(back, plain) {
		t.Fatalf("plaintext mismatch")
	}
	// the default-IV entry point must refuse it
	if _, err := Unwrap(kek, wrapped); !errors.Is(err, ErrIntegrityCheckFailed) {
		t.Fatalf("Unwrap with custom iv: err = %v, want ErrIntegrityCheckFailed", err)
	}
}

func TestUnsupportedKeySizes(t *testing.T) {
	plain := random.Bytes(16)
	wrapped := random.Bytes(24)
	for _, kekLen := range []int{0, 8, 15, 17, 31, 33, 64} {
		kek := random.Bytes(kekLen)
		var kse KeySizeError
		if _, err := Wrap(kek, plain); !errors.As(err, &kse) {
			t.Fatalf("Wrap with %d-byte kek: err = %v, want KeySizeError", kekLen, err)
		}
		if _, err := Unwrap(kek, wrapped); !errors.As(err, &kse) {
			t.Fatalf("Unwrap with %d-byte kek: err = %v, want KeySizeError", kekLen, err)
		}
		if _, _, err := UnwrapAndIV(kek, wrapped); !errors.As(err, &kse) {
			t.Fatalf("UnwrapAndIV with %d-byte kek: err = %v, want KeySizeError", kekLen, err)
		}
		if _, err := WrapWithPadding(kek, plain); !errors.As(err, &kse) {
			t.Fatalf("WrapWithPadding with %d-byte kek: err = %v, want KeySizeError", kekLen, err)
		}
		if _, err := UnwrapWithPadding(kek, wrapped); !errors.As(err, &kse) {
			t.Fatalf("UnwrapWithPadding with %d-byte kek: err = %v, want KeySizeError", kekLen, err)
		}
	}
}

func TestWrapInputLengths(t *testing.T) {
	kek := random.Bytes(16)
	var ile InputLengthError
	// empty, single block (n=1 undefined by RFC 3394) and unaligned inputs
	for _, n := range []int{0, 8, 12, 20} {
		if _, err := Wrap(kek, random.Bytes(n)); !errors.As(err, &ile) {
			t.Fatalf("Wrap of %d bytes: err = %v, want InputLengthError", n, err)
		}
	}
	if _, err := WrapWithIV(kek, random.Bytes(16), random.Bytes(7)); !errors.As(err, &ile) {
		t.Fatalf("WrapWithIV with 7-byte iv: err = %v, want InputLengthError", err)
	}
}

func TestUnwrapInputLengths(t *testing.T) {
	kek := random.Bytes(16)
	var ile InputLengthError
	for _, n := range []int{0, 8, 16, 25} {
		if _, err := Unwrap(kek, random.Bytes(n)); !errors.As(err, &ile) {
			t.Fatalf("Unwrap of %d bytes: err = %v, want InputLengthError", n, err)
		}
	}
}

func TestTamperDetection(t *testing.T) {
	kek := mustHex(t, "000102030405060708090A0B0C0D0E0F")
	wrapped, err := Wrap(kek, mustHex(t, "00112233445566778899AABBCCDDEEFF"))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	for bit := 0; bit < len(wrapped)*8; bit++ {
		mangled := bytes.Clone(wrapped)
		mangled[bit/8] ^= 1 << (bit % 8)
		if _, err := Unwrap(kek, mangled); !errors.Is(err, ErrIntegrityCheckFailed) {
			t.Fatalf("bit %d flipped: err = %v, want ErrIntegrityCheckFailed", bit, err)
		}
	}
}

func TestWrongKEK(t *testing.T) {
	kek := random.Bytes(16)
	wrapped, err := Wrap(kek, random.Bytes(32))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	other := bytes.Clone(kek)
	other[0] ^= 0x01
	if _, err := Unwrap(other, wrapped); !errors.Is(err, ErrIntegrityCheckFailed) {
		t.Fatalf("Unwrap with wrong kek: err = %v, want ErrIntegrityCheckFailed", err)
	}
}

func BenchmarkWrap(b *testing.B) {
	kek := random.Bytes(16)
	plain := random.Bytes(32)
	b.SetBytes(int64(len(plain)))
	for i := 0; i < b.N; i++ {
		if _, err := Wrap(kek, plain); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnwrap(b *testing.B) {
	kek := random.Bytes(16)
	wrapped, err := Wrap(kek, random.Bytes(32))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(wrapped)))
	for i := 0; i < b.N; i++ {
		if _, err := Unwrap(kek, wrapped); err != nil {
			b.Fatal(err)
		}
	}
}

func ExampleWrap() {
	kek, _ := hex.DecodeString("000102030405060708090A0B0C0D0E0F")
	key, _ := hex.DecodeString("00112233445566778899AABBCCDDEEFF")
	wrapped, _ := Wrap(kek, key)
	fmt.Printf("%X\n", wrapped)
	// Output: 1FA68B0A8112B447AEF34BD8FB5A7B829D3E862371D2CFE5
}
