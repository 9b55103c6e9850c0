package blog

import "portfolio/internal/domain/content"

// Filter keeps the articles having at least one of the selected tags, in
// their original order. An empty selection returns articles untouched.
func Filter(articles []content.Article, selected []string) []content.Article {
	if len(selected) == 0 {
		return articles
	}
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		want[s] = struct{}{}
	}

	out := make([]content.Article, 0, len(articles))
	for _, a := range articles {
		if hasAny(a.Tags, want) {
			out = append(out, a)
		}
	}
	return out
}

func hasAny(tags []string, want map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := want[t]; ok {
			return true
		}
	}
	return false
}

type Card struct {
	content.Article
	Visible bool
}

// Cards pairs every article with whether it is part of visible. Articles are
// matched by ID.
func Cards(all, visible []content.Article) []Card {
	shown := make(map[int64]struct{}, len(visible))
	for _, a := range visible {
		shown[a.ID] = struct{}{}
	}
	cards := make([]Card, 0, len(all))
	for _, a := range all {
		_, ok := shown[a.ID]
		cards = append(cards, Card{Article: a, Visible: ok})
	}
	return cards
}
