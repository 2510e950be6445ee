package ingest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"docuchat/internal/model"
	"docuchat/internal/pkg/pdfextract"
)

// LoadDocuments reads every regular file in dataDir (no recursion) and
// returns one Document per file. Files ending in .pdf go through the PDF
// text extractor; everything else is read as plain UTF-8 text. A missing
// directory or an unparseable file aborts the whole load.
func LoadDocuments(dataDir string) ([]model.Document, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data directory failed: %w", err)
	}

	var docs []model.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dataDir, entry.Name())

		var content string
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			content, err = pdfextract.ExtractFile(path)
			if err != nil {
				return nil, fmt.Errorf("extract pdf %s failed: %w", path, err)
			}
		} else {
			raw, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil, fmt.Errorf("read file %s failed: %w", path, readErr)
			}
			content = string(raw)
		}

		docs = append(docs, model.Document{
			Content: content,
			Metadata: map[string]any{
				"source": path,
			},
		})
	}

	log.Printf("loaded %d documents from %s", len(docs), dataDir)
	return docs, nil
}
