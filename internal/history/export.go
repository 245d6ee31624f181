package history

import (
	"encoding/json"
	"fmt"
	"time"

	"nanobanana/internal/domain"
	"nanobanana/pkg/zip"
)

const manifestName = "history.json"

type manifestItem struct {
	ID     int64  `json:"id"`
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
	Base   string `json:"base"`
	Result string `json:"result"`
}

// ExportEntries lays the history out as archive entries: one directory per
// item holding its base and result images, plus a JSON manifest. Items whose
// images cannot be decoded are skipped.
func ExportEntries(items []domain.HistoryItem) ([]zip.Entry, error) {
	entries := make([]zip.Entry, 0, len(items)*2+1)
	manifest := make([]manifestItem, 0, len(items))
	for _, item := range items {
		base, err := domain.ParseDataURI(item.BaseImage)
		if err != nil {
			continue
		}
		result, err := domain.ParseDataURI(item.ResultURL)
		if err != nil {
			continue
		}
		modified := time.UnixMilli(item.ID).UTC()
		dir := fmt.Sprintf("%d", item.ID)
		m := manifestItem{
			ID:     item.ID,
			Prompt: item.Prompt,
			Style:  item.Style,
			Base:   dir + "/base" + extension(base.MIMEType),
			Result: dir + "/result" + extension(result.MIMEType),
		}
		entries = append(entries,
			zip.Entry{Filename: m.Base, Data: base.Data, Modified: modified},
			zip.Entry{Filename: m.Result, Data: result.Data, Modified: modified},
		)
		manifest = append(manifest, m)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("history: encode manifest: %w", err)
	}
	entries = append(entries, zip.Entry{Filename: manifestName, Data: data})
	return entries, nil
}

func extension(mime string) string {
	switch mime {
	case domain.MIMETypePNG:
		return ".png"
	case domain.MIMETypeJPEG:
		return ".jpg"
	default:
		return ".bin"
	}
}
