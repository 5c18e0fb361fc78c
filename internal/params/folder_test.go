package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFolder(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"network", "/network/"},
		{"/network", "/network/"},
		{"/network/", "/network/"},
		{"network/monitoring", "/network/monitoring/"},
		{"//network//monitoring//", "/network/monitoring/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeFolder(tt.in), "input %q", tt.in)
	}
}

func TestFolderDistance(t *testing.T) {
	tests := []struct {
		host, rule string
		want       int
	}{
		{"/network/monitoring/", "/network/monitoring/", 0},
		{"/network/monitoring/", "/network/", 1},
		{"/network/monitoring/", "/", 2},
		{"/", "/", 0},
		{"/network/monitoring/", "/storage/", maxDistance},
		{"/network/monitoring/", "/network/monitoring/dmz/", maxDistance},
		// The rule folder "/net/" is not an ancestor of "/network/" even
		// though it is a string prefix of the segment.
		{"/network/", "/net/", maxDistance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FolderDistance(tt.host, tt.rule), "host %q rule %q", tt.host, tt.rule)
	}
}

func TestSortByFolderPrecedence(t *testing.T) {
	folders := []string{"/", "/network/", "/network/monitoring/"}
	order := SortByFolderPrecedence("/network/monitoring/", folders)
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestSortByFolderPrecedence_StableTies(t *testing.T) {
	// Two rules in the same folder keep their upstream order.
	folders := []string{"/network/", "/network/", "/"}
	order := SortByFolderPrecedence("/network/monitoring/", folders)
	assert.Equal(t, []int{0, 1, 2}, order)
}
