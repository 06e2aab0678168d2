package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diarify/internal/server/services"
	"github.com/gin-gonic/gin"
)

// maxDiaryBody caps a whole create request, form fields and images together.
const maxDiaryBody = 64 << 20

type diaryResponse struct {
	Diary *models.Diary `json:"diary"`
}

type diariesResponse struct {
	Diaries []models.Diary `json:"diaries"`
}

// optionalID parses an optional positive id. Empty input yields nil.
func optionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *Handler) ListDiaries(c *gin.Context) {
	categoryID, err := optionalID(c.Query("category_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid category_id")
		return
	}

	userID, _ := UserID(c)
	list, err := h.diaries.List(c.Request.Context(), userID, diaries.Filter{
		Title:      c.Query("title"),
		CategoryID: categoryID,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "Diaries retrieved successfully", diariesResponse{Diaries: list})
}

func (h *Handler) GetDiary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, _ := UserID(c)
	diary, err := h.diaries.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "Diary retrieved successfully", diaryResponse{Diary: diary})
}

func (h *Handler) CreateDiary(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fail(c, http.StatusBadRequest, "expected multipart/form-data")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDiaryBody)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, "invalid multipart form")
		return
	}

	categoryID, err := optionalID(firstValue(form, "category_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid category_id")
		return
	}

	in := services.DiaryInput{
		Title:      firstValue(form, "title"),
		Content:    firstValue(form, "content"),
		CategoryID: categoryID,
	}
	for _, fh := range form.File[common.DiaryImagesField] {
		in.Images = append(in.Images, imageUpload(fh))
	}

	userID, _ := UserID(c)
	diary, err := h.diaries.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusCreated, "Diary created successfully", diaryResponse{Diary: diary})
}

func firstValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func imageUpload(fh *multipart.FileHeader) services.ImageUpload {
	return services.ImageUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
