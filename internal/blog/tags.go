package blog

import (
	"portfolio/internal/domain/content"
	"sort"
)

// CommonTagLimit is how many tags the blog page offers as filters.
const CommonTagLimit = 5

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCounts counts every tag occurrence across articles, including repeats
// inside a single article. The result is ordered by count, highest first;
// equal counts keep the order in which the tags were first seen.
func TagCounts(articles []content.Article) []TagCount {
	pos := make(map[string]int)
	var counts []TagCount
	for _, a := range articles {
		for _, t := range a.Tags {
			i, ok := pos[t]
			if !ok {
				i = len(counts)
				pos[t] = i
				counts = append(counts, TagCount{Name: t})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopTags returns at most n of the most frequent tags, see TagCounts for the order.
func TopTags(articles []content.Article, n int) []string {
	if n <= 0 {
		return []string{}
	}
	counts := TagCounts(articles)
	if len(counts) > n {
		counts = counts[:n]
	}
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Name)
	}
	return out
}

func CommonTags(articles []content.Article) []string {
	return TopTags(articles, CommonTagLimit)
}
