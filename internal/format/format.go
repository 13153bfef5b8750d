// Package format provides pure presentation helpers for media numbering:
// zero-padded season numbers and compact episode range rendering.
package format

import (
	"fmt"
	"sort"
	"strings"
)

// ZeroPad left-pads s with zeros until it is at least width characters long.
// An empty string stays empty so that absent values remain absent.
func ZeroPad(s string, width int) string {
	if s == "" {
		return ""
	}
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// Season renders a season number as a two-digit zero-padded string.
func Season(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Episodes renders a set of episode numbers in the shortest readable form:
//
//   - a single episode prints as itself: "05"
//   - a contiguous run prints as a range: "01-10"
//   - a non-contiguous set prints comma-separated: "01,03,07"
//
// Input order does not matter; duplicates are collapsed. An empty input
// yields an empty string.
func Episodes(eps []int) string {
	if len(eps) == 0 {
		return ""
	}

	sorted := make([]int, 0, len(eps))
	seen := make(map[int]bool, len(eps))
	for _, e := range eps {
		if !seen[e] {
			seen[e] = true
			sorted = append(sorted, e)
		}
	}
	sort.Ints(sorted)

	if len(sorted) == 1 {
		return fmt.Sprintf("%02d", sorted[0])
	}

	contiguous := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			contiguous = false
			break
		}
	}
	if contiguous {
		return fmt.Sprintf("%02d-%02d", sorted[0], sorted[len(sorted)-1])
	}

	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = fmt.Sprintf("%02d", e)
	}
	return strings.Join(parts, ",")
}
