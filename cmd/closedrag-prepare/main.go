package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/liliang-cn/closedrag/internal/logger"
	"github.com/liliang-cn/closedrag/internal/redlist"
)

func main() {
	inputDir := flag.String("input", "data/raw", "Directory containing the Red List CSV exports")
	output := flag.String("output", "data/processed/redlist-documents.jsonl", "JSONL file to write")
	flag.Parse()

	zl, err := logger.New("info", "console")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	docs := redlist.Prepare(*inputDir, redlist.Sources, zl)
	zl.Info("Conversion finished", zap.Int("documents", len(docs)))

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		zl.Fatal("Failed to create output directory", zap.Error(err))
	}
	f, err := os.Create(*output)
	if err != nil {
		zl.Fatal("Failed to create output file", zap.Error(err))
	}

	w := bufio.NewWriter(f)
	if err := redlist.WriteJSONL(w, docs); err != nil {
		zl.Fatal("Failed to write documents", zap.Error(err))
	}
	if err := w.Flush(); err != nil {
		zl.Fatal("Failed to flush output", zap.Error(err))
	}
	if err := f.Close(); err != nil {
		zl.Fatal("Failed to close output", zap.Error(err))
	}
	zl.Info("Documents written", zap.String("path", *output))

	counts := redlist.CountByCategory(docs)
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		zl.Info("Category total", zap.String("category", c), zap.Int("documents", counts[c]))
	}
}
