package models

import "time"

type Diary struct {
	ID         int64        `json:"id"`
	CreatorID  int64        `json:"creator_id"`
	CategoryID *int64       `json:"category_id,omitempty"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Images     []DiaryImage `json:"images,omitempty"`
}

type DiaryImage struct {
	ID          int64     `json:"id"`
	DiaryID     int64     `json:"diary_id"`
	FilePath    string    `json:"file_path"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

type DiaryList struct {
	Diaries []Diary `json:"diaries"`
}

type DiaryResult struct {
	Diary Diary `json:"diary"`
}

// DiaryFilter narrows a diary list. Zero values mean "no filter".
type DiaryFilter struct {
	Title      string
	CategoryID *int64
}

// DiaryDraft is a diary about to be created. Images are local file paths
// uploaded as multipart parts.
type DiaryDraft struct {
	Title      string
	Content    string
	CategoryID *int64
	Images     []string
}

func (d DiaryDraft) Validate() error {
	return requireFields(map[string]string{
		"title":   d.Title,
		"content": d.Content,
	})
}
