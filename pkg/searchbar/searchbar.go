// Package searchbar reads a query from an input, runs it against a
// search.Client and renders the results as a list of links in a container.
package searchbar

// Input exposes the text typed by the user.
type Input interface {
	Value() string
}

// Container holds the rendered result entries.
type Container interface {
	// Clear removes every entry of the container.
	Clear()
	// Append adds an entry linking to url with title as text.
	Append(title string, url string)
}
