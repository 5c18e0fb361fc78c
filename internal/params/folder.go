package params

import (
	"sort"
	"strings"
)

// maxDistance marks a rule folder that is neither the host's folder nor one
// of its ancestors.
const maxDistance = int(^uint(0) >> 1)

// NormalizeFolder canonicalizes a Checkmk folder path: leading and trailing
// slash, single separators. The root folder is "/".
func NormalizeFolder(folder string) string {
	if folder == "" || folder == "/" {
		return "/"
	}
	parts := strings.FieldsFunc(folder, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/") + "/"
}

// IsRootFolder reports whether folder denotes the root after normalization.
func IsRootFolder(folder string) bool {
	return NormalizeFolder(folder) == "/"
}

// FolderDistance computes how far ruleFolder is above hostFolder in the
// folder hierarchy: 0 for the host's own folder, k for an ancestor k levels
// up, maxDistance when ruleFolder is not on the host's path at all. The root
// folder is the universal ancestor.
func FolderDistance(hostFolder, ruleFolder string) int {
	host := NormalizeFolder(hostFolder)
	rule := NormalizeFolder(ruleFolder)

	if host == rule {
		return 0
	}
	if !strings.HasPrefix(host, rule) {
		return maxDistance
	}
	// Levels between the two are the path segments of the remainder.
	remainder := strings.TrimPrefix(host, rule)
	return strings.Count(remainder, "/")
}

// SortByFolderPrecedence orders indexes of rules by ascending folder
// distance from hostFolder, preserving upstream order for ties (stable).
// Rules outside the host's ancestry sort last but are not removed; callers
// filter on FolderDistance if they want matching rules only.
func SortByFolderPrecedence(hostFolder string, folders []string) []int {
	order := make([]int, len(folders))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return FolderDistance(hostFolder, folders[order[a]]) < FolderDistance(hostFolder, folders[order[b]])
	})
	return order
}
