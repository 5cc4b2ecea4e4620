package domain

// RetrievedDocument is a single search hit, scoped to one request
type RetrievedDocument struct {
	Content string  `json:"content"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

// Source projects the document to its citation
func (d RetrievedDocument) Source() Source {
	return Source{Title: d.Title, URL: d.URL}
}

// SourcesOf projects documents to citations, preserving order.
// The result is never nil so it always encodes as a JSON array.
func SourcesOf(docs []RetrievedDocument) []Source {
	sources := make([]Source, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, d.Source())
	}
	return sources
}
