// Package secret holds the key-material scrubbing helpers used by every
// component that touches raw private-key bytes. Key material is a single-use
// resource: it must be zeroed on every exit path of the operation that
// received it, including error returns.
package secret

// Wipe overwrites b with zero bytes. Safe to call on nil or empty slices.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Bytes wraps a private-key buffer so callers can guarantee destruction with
// a single deferred call:
//
//	key := secret.New(raw)
//	defer key.Destroy()
type Bytes struct {
	buf []byte
}

// New takes ownership of buf. The caller must not retain other references.
func New(buf []byte) *Bytes {
	return &Bytes{buf: buf}
}

// Raw returns the underlying buffer. The returned slice aliases the wrapped
// memory and becomes all-zero after Destroy.
func (b *Bytes) Raw() []byte {
	return b.buf
}

// Destroy zeroes the wrapped buffer. Idempotent.
func (b *Bytes) Destroy() {
	Wipe(b.buf)
}
