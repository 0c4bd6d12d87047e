package engine

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestErrContainerNotVisibleMessage(t *testing.T) {
	err := errContainerNotVisible("ep1")
	assert.ErrorContains(t, err, "ep1")
	assert.ErrorContains(t, err, "did not become visible")
}
