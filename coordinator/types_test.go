package coordinator

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestVethNamesShortID(t *testing.T) {
	host, container := vethNames("abc123")
	assert.Equal(t, host, "dh-abc123")
	assert.Equal(t, container, "abc123-dh")
}

func TestVethNamesTruncatesLongID(t *testing.T) {
	id := "0123456789abcdeffedcba9876543210"
	host, container := vethNames(id)
	assert.Equal(t, host, "dh-0123456789ab")
	assert.Equal(t, container, "0123456789ab-dh")
	assert.Assert(t, len(host) <= 15, "interface names must fit IFNAMSIZ")
	assert.Assert(t, len(container) <= 15)
}
