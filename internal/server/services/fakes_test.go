package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/dbx"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/categories"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	byName map[string]*models.User
	nextID int64
	err    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byName {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	cp := *u
	f.byName[u.Username] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- categories ---

type fakeCategoriesRepo struct {
	items  []models.Category
	nextID int64
	err    error
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, it := range f.items {
		if it.CreatorID == c.CreatorID && it.Name == c.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.items = append(f.items, *c)
	return c, nil
}

func (f *fakeCategoriesRepo) ListByCreator(ctx context.Context, creatorID int64) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Category, 0)
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].CreatorID == creatorID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeCategoriesRepo) GetByID(ctx context.Context, id, creatorID int64) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, it := range f.items {
		if it.ID == id && it.CreatorID == creatorID {
			cp := it
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCategoriesRepo) UpdateName(ctx context.Context, c *models.Category) error {
	if f.err != nil {
		return f.err
	}
	for _, it := range f.items {
		if it.CreatorID == c.CreatorID && it.Name == c.Name && it.ID != c.ID {
			return common.ErrorAlreadyExists
		}
	}
	for i, it := range f.items {
		if it.ID == c.ID && it.CreatorID == c.CreatorID {
			f.items[i].Name = c.Name
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeCategoriesRepo) Delete(ctx context.Context, id, creatorID int64) error {
	if f.err != nil {
		return f.err
	}
	for i, it := range f.items {
		if it.ID == id && it.CreatorID == creatorID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- diaries ---

type fakeDiariesRepo struct {
	diaries    []models.Diary
	images     []models.DiaryImage
	lastFilter diaries.Filter
	nextID     int64
	createErr  error
	imageErr   error
	err        error
}

func (f *fakeDiariesRepo) Create(ctx context.Context, d *models.Diary) (*models.Diary, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	d.ID = f.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.diaries = append(f.diaries, *d)
	return d, nil
}

func (f *fakeDiariesRepo) AddImage(ctx context.Context, img *models.DiaryImage) (*models.DiaryImage, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	img.ID = int64(len(f.images) + 1)
	f.images = append(f.images, *img)
	return img, nil
}

func (f *fakeDiariesRepo) List(ctx context.Context, creatorID int64, flt diaries.Filter) ([]models.Diary, error) {
	f.lastFilter = flt
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Diary, 0)
	for _, d := range f.diaries {
		if d.CreatorID == creatorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDiariesRepo) GetByID(ctx context.Context, id, creatorID int64) (*models.Diary, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.diaries {
		if d.ID == id && d.CreatorID == creatorID {
			cp := d
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeDiariesRepo) ListImages(ctx context.Context, diaryID int64) ([]models.DiaryImage, error) {
	out := make([]models.DiaryImage, 0)
	for _, img := range f.images {
		if img.DiaryID == diaryID {
			out = append(out, img)
		}
	}
	return out, nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCategoriesRepo
	d *fakeDiariesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), c: &fakeCategoriesRepo{}, d: &fakeDiariesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categories.Repository { return m.c }
func (m *fakeRepoManager) Diaries(db dbx.DBTX) diaries.Repository       { return m.d }

// --- media ---

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  error
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}}
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = string(b)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func upload(name, contentType, body string) ImageUpload {
	return ImageUpload{
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}
