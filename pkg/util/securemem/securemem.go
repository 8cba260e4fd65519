// Package securemem keeps KEK bytes in memguard locked buffers so they are
// mlocked, canary-guarded and wiped on destroy.
package securemem

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
)

// Secret wraps a memguard locked buffer.
type Secret struct {
	buf *memguard.LockedBuffer
}

func NewRandom(n int) *Secret {
	return &Secret{buf: memguard.NewBufferRandom(n)}
}

// New moves b into a locked buffer; memguard wipes the source slice.
func New(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

// FromFile reads a key file into a locked buffer. The transient copy made
// by the read is wiped before returning.
func FromFile(path string) (*Secret, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kek: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("kek file %s is empty", path)
	}
	return New(b), nil
}

func (s *Secret) Bytes() []byte { return s.buf.Bytes() }
func (s *Secret) Len() int      { return s.buf.Size() }
func (s *Secret) Destroy()      { s.buf.Destroy() }
