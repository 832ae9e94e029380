package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/repository/xlsx"
)

// fileSource reads raw records from a JSON array or a workbook.
type fileSource struct {
	path  string
	sheet string
}

func (f fileSource) FetchRaw(ctx context.Context) ([]models.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".xlsx":
		return xlsx.NewFileSource(f.path, f.sheet, nil).FetchRaw(ctx)
	case ".json":
		content, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		var records []models.RawRecord
		if err := json.Unmarshal(content, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.path, err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json or .xlsx)", filepath.Ext(f.path))
	}
}
