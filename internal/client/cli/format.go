package cli

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/diarify/internal/client/models"
)

const maxSnippetLength = 100

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("January 2, 2006")
}

// categoryLabel names a diary's category, falling back to its id when the
// category list does not know it.
func categoryLabel(categories []models.Category, id *int64) string {
	if id == nil {
		return ""
	}
	if name := models.CategoryName(categories, id); name != "" {
		return name
	}
	return fmt.Sprintf("Category %d", *id)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
