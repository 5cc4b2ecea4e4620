package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liliang-cn/closedrag/internal/domain"
)

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil))
	assert.Equal(t, "", FormatContext([]domain.RetrievedDocument{}))
}

func TestFormatContext_Layout(t *testing.T) {
	docs := []domain.RetrievedDocument{
		{Title: "Red List A", Content: "Critically endangered.", URL: "http://x/a", Score: 0.9},
		{Title: "Red List B", Content: "Vulnerable.", URL: "http://x/b", Score: 0.5},
	}

	want := "[Red List A]\nCritically endangered.\nSource: http://x/a\n\n" +
		"[Red List B]\nVulnerable.\nSource: http://x/b"
	assert.Equal(t, want, FormatContext(docs))
}

func TestFormatContext_OneBlockPerDocumentInOrder(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		docs := make([]domain.RetrievedDocument, n)
		for i := range docs {
			docs[i] = domain.RetrievedDocument{
				Title:   fmt.Sprintf("doc-%d", i),
				Content: "body",
				URL:     fmt.Sprintf("http://x/%d", i),
			}
		}

		out := FormatContext(docs)
		assert.Equal(t, n, strings.Count(out, "Source: "), "n=%d", n)
		assert.Equal(t, n-1, strings.Count(out, "\n\n"), "n=%d", n)

		last := -1
		for i := range docs {
			title := strings.Index(out, fmt.Sprintf("[doc-%d]", i))
			source := strings.Index(out, fmt.Sprintf("Source: http://x/%d", i))
			assert.Greater(t, title, last, "title %d out of order", i)
			assert.Greater(t, source, title, "source %d before its title", i)
			last = source
		}
	}
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt("endangered species list", "[A]\nbody\nSource: http://x/a")
	assert.Equal(t, "Context:\n[A]\nbody\nSource: http://x/a\n\nQuestion: endangered species list\n\nAnswer the question using the context above.", got)

	empty := UserPrompt("q", "")
	assert.True(t, strings.HasPrefix(empty, "Context:\n\n\nQuestion: q"))
}
