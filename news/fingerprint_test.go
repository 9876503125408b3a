package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "rock returns raw", NormalizeTitle("The Rock Returns, to RAW!"))
	assert.Equal(t, "", NormalizeTitle("The and of"))
}

func TestFingerprintGroupsVariants(t *testing.T) {
	a := Fingerprint("The Rock returns to Raw!")
	b := Fingerprint("rock RETURNS raw")
	c := Fingerprint("The Rock returns to SmackDown")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
