package domain

import (
	"time"
)

// Skin is one stored skin texture.
type Skin struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	Model        string    `json:"model,omitempty"` // regular or slim
	UploadedAt   time.Time `json:"uploaded_at"`
	Processed    bool      `json:"processed"`
}
