package sync_preparer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The hash format is an external contract: the remote versioning system must
// independently compute the same object names.
func TestComputeContentHash_KnownVector(t *testing.T) {
	assert.Equal(t, "3b18e512dba79e4c8300dd08aeb37f8e728b8dad", ComputeContentHash("hello world\n"))
}

func TestComputeContentHash_EmptyContent(t *testing.T) {
	// sha1("blob 0\x00") is the well-known empty-object hash.
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", ComputeContentHash(""))
}

func TestComputeContentHash_LengthIsByteLengthNotRuneLength(t *testing.T) {
	// Multibyte content: the length prefix must count UTF-8 bytes.
	multibyte := "héllo"
	singlebyte := "hello"
	assert.NotEqual(t, ComputeContentHash(singlebyte), ComputeContentHash(multibyte))

	// Same content always produces the same digest.
	assert.Equal(t, ComputeContentHash(multibyte), ComputeContentHash(multibyte))
}

func TestComputeContentHash_LowercaseHex(t *testing.T) {
	hash := ComputeContentHash("any content")
	assert.Len(t, hash, 40)
	for _, c := range hash {
		assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "hash must be lowercase hex, got %q", c)
	}
}
