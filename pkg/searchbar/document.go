package searchbar

import (
	_ "embed"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	InputID   = "searchInput"
	ResultsID = "searchResults"
)

//go:embed page.html
var defaultPage string

var ErrMissingElement = errors.New("missing element")

// Document is an HTML page holding the search input and the results
// container, identified by InputID and ResultsID.
type Document struct {
	doc     *goquery.Document
	input   *goquery.Selection
	results *goquery.Selection
	mutex   sync.RWMutex
}

// Value implements Input.
func (d *Document) Value() string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.input.AttrOr("value", "")
}

// SetQuery sets the value of the search input.
func (d *Document) SetQuery(query string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.input.SetAttr("value", query)
}

// Clear implements Container.
func (d *Document) Clear() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.results.Empty()
}

// Append implements Container.
func (d *Document) Append(title string, url string) {
	link := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: url}},
	}
	link.AppendChild(&html.Node{Type: html.TextNode, Data: title})

	item := &html.Node{
		Type:     html.ElementNode,
		Data:     "li",
		DataAtom: atom.Li,
	}
	item.AppendChild(link)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.results.AppendNodes(item)
}

// Len returns the number of entries in the results container.
func (d *Document) Len() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.results.Children().Length()
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	var sb strings.Builder
	if err := html.Render(&sb, d.doc.Get(0)); err != nil {
		return "", errors.WithStack(err)
	}

	return sb.String(), nil
}

// ResultsHTML serializes the content of the results container.
func (d *Document) ResultsHTML() (string, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	markup, err := d.results.Html()
	if err != nil {
		return "", errors.WithStack(err)
	}

	return markup, nil
}

// ParseDocument parses a page containing the search input and results
// container.
func ParseDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	input := doc.Find("#" + InputID).First()
	if input.Length() == 0 {
		return nil, errors.Wrapf(ErrMissingElement, "could not find element '#%s'", InputID)
	}

	results := doc.Find("#" + ResultsID).First()
	if results.Length() == 0 {
		return nil, errors.Wrapf(ErrMissingElement, "could not find element '#%s'", ResultsID)
	}

	return &Document{
		doc:     doc,
		input:   input,
		results: results,
	}, nil
}

// NewDocument returns a new instance of the default search page.
func NewDocument() (*Document, error) {
	return ParseDocument(strings.NewReader(defaultPage))
}

var (
	_ Input     = &Document{}
	_ Container = &Document{}
)
