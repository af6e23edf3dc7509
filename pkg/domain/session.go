package domain

import "time"

// EditorSession records the workspace folder of the last fresh editor window.
// It is overwritten, never merged, by each new non-reused editor launch.
type EditorSession struct {
	ID        string    `json:"id"`
	Folder    string    `json:"folder"`
	CreatedAt time.Time `json:"created_at"`
}

// Stamp is the folder suffix format used for workspace names.
const Stamp = "20060102_150405"
