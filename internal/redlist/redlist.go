// Package redlist converts the Ministry of the Environment Red List CSV exports into
// the JSONL documents loaded into the search index.
package redlist

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// SourceURL is the dataset page every document cites
const SourceURL = "https://data.e-gov.go.jp/data/dataset/env_20140904_0456"

// Document is one species entry. Title, content and url are the fields the chat retriever reads.
type Document struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Category       string `json:"category"`
	Rank           string `json:"rank"`
	URL            string `json:"url"`
	ScientificName string `json:"scientific_name"`
	JapaneseName   string `json:"japanese_name"`
	Family         string `json:"family"`
}

// Source is one CSV export and the taxonomic category its rows belong to
type Source struct {
	File     string
	Category string
}

// Sources lists the 2012 (4th) Red List exports in output order
var Sources = []Source{
	{File: "redList2012_honyurui.csv", Category: "哺乳類"},
	{File: "redList2012_tyorui.csv", Category: "鳥類"},
	{File: "redList2012_hachurui.csv", Category: "爬虫類"},
	{File: "redList2012_ryouseirui.csv", Category: "両生類"},
	{File: "redList2012_tansuigyorui.csv", Category: "汽水・淡水魚類"},
	{File: "redList2012_kontyurui_2.csv", Category: "昆虫類"},
	{File: "redList2012_kairui_1.csv", Category: "貝類"},
	{File: "redList2012_invertebrate_1.csv", Category: "その他無脊椎動物"},
	{File: "redList2012_ikansoku.csv", Category: "維管束植物"},
}

// ParseCSV reads a Shift-JIS export. The first row is a header; columns are
// scientific name, Japanese name, rank and family, and missing trailing columns are empty.
// IDs are assigned sequentially starting at firstID.
func ParseCSV(r io.Reader, category string, firstID int) ([]Document, error) {
	reader := csv.NewReader(transform.NewReader(r, japanese.ShiftJIS.NewDecoder()))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var docs []Document
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		docs = append(docs, newDocument(strconv.Itoa(firstID+len(docs)), category, record))
	}
	return docs, nil
}

func newDocument(id, category string, record []string) Document {
	scientific := column(record, 0)
	japaneseName := column(record, 1)
	rank := column(record, 2)
	family := column(record, 3)

	content := fmt.Sprintf("分類: %s\n和名: %s\n学名: %s\n絶滅危惧ランク: %s\n科名: %s\n\nこの種は環境省のレッドリスト(第4次)において%sに分類されています。",
		category, japaneseName, scientific, rank, family, rank)

	return Document{
		ID:             id,
		Title:          fmt.Sprintf("%s (%s)", japaneseName, scientific),
		Content:        content,
		Category:       category,
		Rank:           rank,
		URL:            SourceURL,
		ScientificName: scientific,
		JapaneseName:   japaneseName,
		Family:         family,
	}
}

func column(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Prepare converts every listed export found in dir. Missing or unreadable files are
// logged and skipped; IDs stay sequential across the files that were read.
func Prepare(dir string, sources []Source, logger *zap.Logger) []Document {
	var all []Document
	for _, src := range sources {
		path := filepath.Join(dir, src.File)
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("Red List file not found, skipping", zap.String("file", src.File))
			continue
		}

		docs, err := ParseCSV(f, src.Category, len(all)+1)
		f.Close()
		if err != nil {
			logger.Error("Failed to parse Red List file", zap.String("file", src.File), zap.Error(err))
			continue
		}

		logger.Info("Parsed Red List file",
			zap.String("file", src.File),
			zap.String("category", src.Category),
			zap.Int("documents", len(docs)),
		)
		all = append(all, docs...)
	}
	return all
}

// WriteJSONL writes one JSON object per line, keeping non-ASCII text unescaped
func WriteJSONL(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to write document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// CountByCategory tallies documents per category
func CountByCategory(docs []Document) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		counts[doc.Category]++
	}
	return counts
}
