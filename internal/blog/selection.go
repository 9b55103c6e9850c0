package blog

import (
	"net/url"
	"strings"
)

// ParseSelection cleans raw tag values: blanks are dropped, repeats collapse
// to their first position.
func ParseSelection(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func Contains(selection []string, tag string) bool {
	for _, s := range selection {
		if s == tag {
			return true
		}
	}
	return false
}

// Toggle returns the selection with tag added, or removed when already present.
// The input is not modified.
func Toggle(selection []string, tag string) []string {
	out := make([]string, 0, len(selection)+1)
	found := false
	for _, s := range selection {
		if s == tag {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}

// Query encodes a selection as repeated tag parameters.
func Query(selection []string) string {
	if len(selection) == 0 {
		return ""
	}
	v := url.Values{}
	for _, s := range selection {
		v.Add("tag", s)
	}
	return v.Encode()
}
