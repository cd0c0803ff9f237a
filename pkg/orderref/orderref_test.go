package orderref_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/sipwell/storefront-api/pkg/orderref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_Format(t *testing.T) {
	gen, err := orderref.New(1)
	require.NoError(t, err)

	ref := gen.Next()

	pattern := regexp.MustCompile(`^ORD-\d{8}-\d+$`)
	assert.Regexp(t, pattern, ref)
	assert.Contains(t, ref, time.Now().Format("20060102"))
}

func TestNext_NoCollisions(t *testing.T) {
	gen, err := orderref.New(2)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		ref := gen.Next()
		require.False(t, seen[ref], "duplicate order number %s", ref)
		seen[ref] = true
	}
}

func TestNew_RejectsOutOfRangeNode(t *testing.T) {
	_, err := orderref.New(1 << 12)
	require.Error(t, err)
}
