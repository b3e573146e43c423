package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLink(t *testing.T) {
	assert.Equal(t, "https://cash.app/$BNRMinistry/25", Link("BNRMinistry", 25))
	assert.Equal(t, "https://cash.app/$grace/12.5", Link("$grace", 12.5))
	assert.Equal(t, "https://cash.app/$grace/0", Link(" $grace ", 0))
}
