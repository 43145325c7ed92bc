package searchbar

import "github.com/bornholm/searchbar/pkg/search"

// Render replaces the container content with one link per result, in the
// results order.
func Render(container Container, results []search.Result) {
	container.Clear()

	for _, r := range results {
		container.Append(r.Title, r.URL)
	}
}
