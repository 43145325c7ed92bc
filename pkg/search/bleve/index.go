package bleve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/bornholm/searchbar/pkg/corpus"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/cespare/xxhash/v2"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

const documentType = "post"

// titleBoost matches the title weight of the local index.
const titleBoost = 3

type document struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Meta  string `json:"meta"`
	Body  string `json:"body"`
}

// Type implements mapping.Classifier.
func (d document) Type() string {
	return documentType
}

// Index is a search.Client backed by an in-memory bleve index.
type Index struct {
	index bleve.Index
	mutex sync.RWMutex
}

// Search implements search.Client.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	titleQuery := bleve.NewMatchQuery(query)
	titleQuery.SetField("title")
	titleQuery.SetBoost(titleBoost)

	bodyQuery := bleve.NewMatchQuery(query)
	bodyQuery.SetField("body")

	searchRequest := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(titleQuery, bodyQuery))
	searchRequest.Fields = []string{"title", "url", "meta"}
	if limit > 0 {
		searchRequest.Size = limit
	}

	i.mutex.RLock()
	defer i.mutex.RUnlock()

	searchResults, err := i.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]search.Result, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		results = append(results, search.Result{
			Title:       fieldString(hit.Fields, "title"),
			URL:         fieldString(hit.Fields, "url"),
			Description: fieldString(hit.Fields, "meta"),
		})
	}

	slog.DebugContext(ctx, "bleve index searched", slog.String("query", query), slog.Uint64("total", searchResults.Total), slog.Int("results", len(results)))

	return results, nil
}

// Replace swaps the indexed posts with the given ones.
func (i *Index) Replace(posts []corpus.Post) error {
	index, err := newMemIndex(posts)
	if err != nil {
		return errors.WithStack(err)
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	previous := i.index
	i.index = index

	if previous != nil {
		if err := previous.Close(); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

// Close releases the index resources.
func (i *Index) Close() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if i.index != nil {
		return errors.WithStack(i.index.Close())
	}

	return nil
}

// NewIndex indexes the given posts in memory.
func NewIndex(posts []corpus.Post) (*Index, error) {
	index, err := newMemIndex(posts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Index{index: index}, nil
}

func newMemIndex(posts []corpus.Post) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(newIndexMapping())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	batch := index.NewBatch()
	for _, p := range posts {
		doc := document{
			Title: p.Title,
			URL:   p.URL,
			Meta:  p.Meta,
			Body:  p.Body,
		}

		if err := batch.Index(documentID(p), doc); err != nil {
			_ = index.Close()
			return nil, errors.WithStack(err)
		}
	}

	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, errors.WithStack(err)
	}

	return index, nil
}

func newIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Store = true
	titleFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Store = false
	bodyFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("body", bodyFieldMapping)

	// Stored only
	urlFieldMapping := bleve.NewKeywordFieldMapping()
	urlFieldMapping.Store = true
	urlFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("url", urlFieldMapping)

	metaFieldMapping := bleve.NewTextFieldMapping()
	metaFieldMapping.Store = true
	metaFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("meta", metaFieldMapping)

	indexMapping.AddDocumentMapping(documentType, docMapping)

	return indexMapping
}

// documentID is stable for a given post and readable in debug logs.
func documentID(p corpus.Post) string {
	return fmt.Sprintf("%s-%x", slug.Make(p.Title), xxhash.Sum64String(p.URL))
}

func fieldString(fields map[string]interface{}, name string) string {
	value, _ := fields[name].(string)
	return value
}

var _ search.Client = &Index{}
