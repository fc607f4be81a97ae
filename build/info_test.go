package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitOrUnknown(t *testing.T) {
	var missing *Info
	assert.Equal(t, "unknown", missing.CommitOrUnknown())
	assert.Equal(t, "unknown", (&Info{}).CommitOrUnknown())
	assert.Equal(t, "abc", (&Info{CommitHash: "abc"}).CommitOrUnknown())
	assert.Equal(t, "0123456789ab", (&Info{CommitHash: "0123456789abcdef"}).CommitOrUnknown())
}
