package models

import "time"

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatorID int64     `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (r CategoryRequest) Validate() error {
	return requireFields(map[string]string{"name": r.Name})
}

type CategoryList struct {
	Categories []Category `json:"categories"`
}

type CategoryResult struct {
	Category Category `json:"category"`
}

// CategoryName returns the name of the category with the given id, or ""
// when id is nil or unknown.
func CategoryName(categories []Category, id *int64) string {
	if id == nil {
		return ""
	}
	for _, c := range categories {
		if c.ID == *id {
			return c.Name
		}
	}
	return ""
}
