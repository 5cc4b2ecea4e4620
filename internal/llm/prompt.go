package llm

import (
	"fmt"
	"strings"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// SystemPrompt fixes the assistant's behavior for every question
const SystemPrompt = `You are a helpful assistant.
Answer the user's question accurately, based on the provided context.
If the context does not contain the information, say so.
When answering, cite the sources you referred to.`

// FormatContext renders retrieved documents as titled blocks separated by a blank line.
// No documents yields an empty string.
func FormatContext(docs []domain.RetrievedDocument) string {
	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s\nSource: %s", doc.Title, doc.Content, doc.URL))
	}
	return strings.Join(blocks, "\n\n")
}

// UserPrompt combines the context block and the question into the user turn
func UserPrompt(message, contextBlock string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer the question using the context above.", contextBlock, message)
}
