package blog

import "portfolio/internal/domain/content"

// View is what the blog page renders for one selection.
type View struct {
	Articles []content.Article `json:"articles"`
	Tags     []string          `json:"tags"`
	Selected []string          `json:"selected"`
}

// Derive computes the common tags of all and the articles matching selected.
// It does no I/O and returns the same result for the same input.
func Derive(all []content.Article, selected []string) View {
	if selected == nil {
		selected = []string{}
	}
	articles := Filter(all, selected)
	if articles == nil {
		articles = []content.Article{}
	}
	return View{
		Articles: articles,
		Tags:     CommonTags(all),
		Selected: selected,
	}
}
