package models

import "time"

// Diary is a journal entry. Rows with IsDeleted set are never returned to clients.
type Diary struct {
	ID         int64        `json:"id"`
	CreatorID  int64        `json:"creator_id"`
	CategoryID *int64       `json:"category_id,omitempty"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	IsDeleted  bool         `json:"-"`
	DeletedAt  *time.Time   `json:"-"`
	Images     []DiaryImage `json:"images,omitempty"`
}

// DiaryImage describes a stored image. FilePath is relative to the media root.
type DiaryImage struct {
	ID          int64     `json:"id"`
	DiaryID     int64     `json:"diary_id"`
	FilePath    string    `json:"file_path"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}
