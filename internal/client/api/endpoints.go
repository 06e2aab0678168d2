package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/dmitrijs2005/diarify/internal/common"
)

var (
	signInPath   = common.UsersPrefix + "signin/"
	signUpPath   = common.UsersPrefix + "signup/"
	signOutPath  = common.UsersPrefix + "signout/"
	profilePath  = common.UsersPrefix + "profile/"
	categoryList = common.CategoriesPrefix + "list/"
	categoryNew  = common.CategoriesPrefix + "create/"
	categoryEdit = common.CategoriesPrefix + "update/"
	categoryDrop = common.CategoriesPrefix + "delete/"
	diaryList    = common.DiariesPrefix + "list/"
	diaryNew     = common.DiariesPrefix + "create/"
	diaryDetail  = common.DiariesPrefix + "detail/"
)

// decode turns an envelope into either v or the server's error.
func decode(env *models.Envelope, v any) error {
	if err := env.Err(); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return env.Decode(v)
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10) + "/"
}

// SignIn exchanges username and password for a credential and stores it
// together with the returned user.
func (c *Client) SignIn(ctx context.Context, in models.SignInRequest) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r, err := JSON(http.MethodPost, in)
	if err != nil {
		return nil, err
	}
	env, err := c.FetchWithoutAuth(ctx, signInPath, r)
	if err != nil {
		return nil, err
	}

	var res models.SignInResult
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	if err := c.creds.Save(ctx, res.AccessToken, res.User); err != nil {
		return nil, err
	}
	c.log.Info(ctx, "signed in", "user_id", res.User.ID)
	return &res.User, nil
}

// SignUp registers an account and returns the new user id.
func (c *Client) SignUp(ctx context.Context, in models.SignUpRequest) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	r, err := JSON(http.MethodPost, in)
	if err != nil {
		return 0, err
	}
	env, err := c.FetchWithoutAuth(ctx, signUpPath, r)
	if err != nil {
		return 0, err
	}

	var res models.SignUpResult
	if err := decode(env, &res); err != nil {
		return 0, err
	}
	return res.SignupID, nil
}

// SignOut revokes the credential on the server and always forgets it
// locally, even if the server could not be reached.
func (c *Client) SignOut(ctx context.Context) error {
	env, err := c.FetchWithAuth(ctx, signOutPath, Request{Method: http.MethodPost})
	if clearErr := c.creds.Clear(ctx); clearErr != nil && err == nil {
		err = clearErr
	}
	if err != nil {
		return err
	}
	return env.Err()
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	env, err := c.FetchWithAuth(ctx, profilePath, Request{})
	if err != nil {
		return nil, err
	}
	var res models.ProfileResult
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// GetCategories lists the user's categories, newest first.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	env, err := c.FetchWithAuth(ctx, categoryList, Request{})
	if err != nil {
		return nil, err
	}
	var res models.CategoryList
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	return res.Categories, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	return c.writeCategory(ctx, http.MethodPost, categoryNew, name)
}

// UpdateCategory renames category id.
func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	return c.writeCategory(ctx, http.MethodPut, idPath(categoryEdit, id), name)
}

func (c *Client) writeCategory(ctx context.Context, method, path, name string) (*models.Category, error) {
	in := models.CategoryRequest{Name: name}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r, err := JSON(method, in)
	if err != nil {
		return nil, err
	}
	env, err := c.FetchWithAuth(ctx, path, r)
	if err != nil {
		return nil, err
	}
	var res models.CategoryResult
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	return &res.Category, nil
}

// DeleteCategory removes category id.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	env, err := c.FetchWithAuth(ctx, idPath(categoryDrop, id), Request{Method: http.MethodDelete})
	if err != nil {
		return err
	}
	return decode(env, nil)
}

// DiaryQuery encodes a diary filter. Unset parameters are left out, so an
// empty filter yields "".
func DiaryQuery(f models.DiaryFilter) string {
	q := url.Values{}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.CategoryID != nil && *f.CategoryID > 0 {
		q.Set("category_id", strconv.FormatInt(*f.CategoryID, 10))
	}
	return q.Encode()
}

// GetDiaries lists diaries matching f.
func (c *Client) GetDiaries(ctx context.Context, f models.DiaryFilter) ([]models.Diary, error) {
	path := diaryList
	if q := DiaryQuery(f); q != "" {
		path += "?" + q
	}
	env, err := c.FetchWithAuth(ctx, path, Request{})
	if err != nil {
		return nil, err
	}
	var res models.DiaryList
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	return res.Diaries, nil
}

// GetDiaryByID fetches one diary with its images.
func (c *Client) GetDiaryByID(ctx context.Context, id int64) (*models.Diary, error) {
	env, err := c.FetchWithAuth(ctx, idPath(diaryDetail, id), Request{})
	if err != nil {
		return nil, err
	}
	var res models.DiaryResult
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	return &res.Diary, nil
}

// CreateDiary uploads a new diary with its images as a multipart form.
func (c *Client) CreateDiary(ctx context.Context, d models.DiaryDraft) (*models.Diary, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	fields := []FormField{
		{Name: "title", Value: d.Title},
		{Name: "content", Value: d.Content},
	}
	if d.CategoryID != nil {
		fields = append(fields, FormField{Name: "category_id", Value: strconv.FormatInt(*d.CategoryID, 10)})
	}

	files := make([]FilePart, 0, len(d.Images))
	for _, p := range d.Images {
		part, err := openImage(common.DiaryImagesField, p)
		if err != nil {
			return nil, err
		}
		files = append(files, part)
	}

	env, err := c.FetchUploadWithAuth(ctx, diaryNew, fields, files)
	if err != nil {
		return nil, err
	}
	var res models.DiaryResult
	if err := decode(env, &res); err != nil {
		return nil, err
	}
	return &res.Diary, nil
}

// ImageURL resolves an image's file path against the media base URL. An
// absolute file path (for example an object storage URL) is returned as is.
func (c *Client) ImageURL(img models.DiaryImage) string {
	u, err := resolve(c.mediaURL, img.FilePath)
	if err != nil {
		return img.FilePath
	}
	return u
}
