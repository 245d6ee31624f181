package domain

// HistoryLimit caps the number of persisted generations.
const HistoryLimit = 10

// HistoryItem records one successful generation. Items are never mutated after
// creation; the list only grows at the front and loses its tail.
type HistoryItem struct {
	ID        int64  `json:"id"`
	Prompt    string `json:"prompt"`
	Style     string `json:"style"`
	ResultURL string `json:"resultUrl"`
	BaseImage string `json:"baseImage"`
}
