package secret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github/chapool/wallet-core/internal/wallet/secret"
)

func TestWipe(t *testing.T) {
	buf := []byte{0xde, 0xad, 0xbe, 0xef}
	secret.Wipe(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestWipeNilAndEmpty(t *testing.T) {
	assert.NotPanics(t, func() {
		secret.Wipe(nil)
		secret.Wipe([]byte{})
	})
}

func TestBytesDestroy(t *testing.T) {
	raw := []byte{1, 2, 3}
	b := secret.New(raw)

	assert.Equal(t, []byte{1, 2, 3}, b.Raw())

	b.Destroy()
	assert.Equal(t, []byte{0, 0, 0}, b.Raw())
	// the original reference is scrubbed too, Raw aliases it
	assert.Equal(t, []byte{0, 0, 0}, raw)

	assert.NotPanics(t, b.Destroy)
}
