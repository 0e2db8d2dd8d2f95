package core

import (
	"strconv"
	"strings"
)

// Naming maps matrix indices to file names: Prefix + index + Extension.
type Naming struct {
	Prefix    string
	Extension string
}

// FileName returns the file name for index i.
func (n Naming) FileName(i int) string {
	return n.Prefix + strconv.Itoa(i) + n.Extension
}

// Pattern returns the glob selecting every file of this naming scheme.
// Glob metacharacters in Prefix and Extension are escaped.
func (n Naming) Pattern() string {
	return escapeGlob(n.Prefix) + "*" + escapeGlob(n.Extension)
}

// ParseIndex extracts the index from a file name produced by FileName.
// It is the exact inverse of FileName: names with leading zeros are rejected.
func (n Naming) ParseIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, n.Prefix) || !strings.HasSuffix(name, n.Extension) {
		return 0, false
	}
	if len(name) < len(n.Prefix)+len(n.Extension) {
		return 0, false
	}
	mid := name[len(n.Prefix) : len(name)-len(n.Extension)]
	// FileName never pads, so "07" would alias index 7.
	if mid == "" || (len(mid) > 1 && mid[0] == '0') {
		return 0, false
	}
	for _, r := range mid {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(mid)
	if err != nil {
		return 0, false
	}
	return i, true
}

func escapeGlob(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
