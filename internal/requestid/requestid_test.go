package requestid

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^req_[0-9a-f]{6}$`)

func TestNew_Format(t *testing.T) {
	id := New()
	assert.Regexp(t, idPattern, id)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		require.False(t, seen[id], "generated duplicate id %s", id)
		seen[id] = true
	}
}

func TestContextRoundTrip(t *testing.T) {
	id := New()
	ctx := WithContext(context.Background(), id)
	assert.Equal(t, id, FromContext(ctx))
}

func TestFromContext_Absent(t *testing.T) {
	assert.Equal(t, "", FromContext(context.Background()))
}
