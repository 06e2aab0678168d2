package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type fakeCreds struct {
	mu      sync.Mutex
	token   string
	user    *models.User
	cleared int
	getErr  error
}

func (f *fakeCreds) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.getErr
}

func (f *fakeCreds) Save(ctx context.Context, token string, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.user = token, &user
	return nil
}

func (f *fakeCreds) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.user = "", nil
	f.cleared++
	return nil
}

type fakeNav struct{ routes []string }

func (n *fakeNav) Navigate(route string) { n.routes = append(n.routes, route) }

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *fakeCreds, *fakeNav) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	creds := &fakeCreds{token: "tok-1"}
	nav := &fakeNav{}
	c, err := New(srv.URL, "", creds, WithNavigator(nav), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, creds, nav
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*************
 * Fetch
 *************/

func TestNew_RejectsRelativeBase(t *testing.T) {
	_, err := New("localhost:8080", "", &fakeCreds{})
	assert.Error(t, err)

	_, err = New("http://localhost:8080", "::bad", &fakeCreds{})
	assert.Error(t, err)
}

func TestFetchWithAuth_SendsBearerAndDefaults(t *testing.T) {
	var got *http.Request
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "data": map[string]int{"n": 1}})
	})

	env, err := c.FetchWithAuth(context.Background(), "api/v1/categories/list/", Request{})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/v1/categories/list/", got.URL.Path)
	assert.Equal(t, "Bearer tok-1", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "ok", env.Message)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.JSONEq(t, `{"n":1}`, string(env.Data))
}

func TestFetchWithAuth_ReadsTokenPerCall(t *testing.T) {
	var seen []string
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
	})

	ctx := context.Background()
	_, err := c.FetchWithAuth(ctx, "x/", Request{})
	require.NoError(t, err)
	creds.token = "tok-2"
	_, err = c.FetchWithAuth(ctx, "x/", Request{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok-1", "Bearer tok-2"}, seen)
}

func TestFetchWithAuth_CallerHeadersOverrideDefaults(t *testing.T) {
	var ct, custom string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ct, custom = r.Header.Get("Content-Type"), r.Header.Get("X-Trace")
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := c.FetchWithAuth(context.Background(), "x/", Request{
		Method: http.MethodPost,
		Body:   strings.NewReader("a=b"),
		Header: http.Header{"Content-Type": {"text/plain"}, "X-Trace": {"42"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "42", custom)
}

func TestFetchWithoutAuth_NoCredential(t *testing.T) {
	var auth string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := c.FetchWithoutAuth(context.Background(), "x/", Request{})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestFetchWithAuth_401ClearsAndRedirects(t *testing.T) {
	c, creds, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "token expired", "data": map[string]int{"leak": 1}})
	})
	creds.user = &models.User{ID: 1}

	env, err := c.FetchWithAuth(context.Background(), "x/", Request{})
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, env)
	assert.Empty(t, creds.token)
	assert.Nil(t, creds.user)
	assert.Equal(t, 1, creds.cleared)
	assert.Equal(t, []string{SignInRoute}, nav.routes)
}

func TestFetchWithoutAuth_401IsEnvelope(t *testing.T) {
	c, creds, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid username or password"})
	})

	env, err := c.FetchWithoutAuth(context.Background(), "x/", Request{})
	require.NoError(t, err)
	assert.Equal(t, "invalid username or password", env.Error)
	assert.Equal(t, "tok-1", creds.token)
	assert.Empty(t, nav.routes)
}

func TestFetch_Non2xxIsNotError(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "category already exists"})
	})

	env, err := c.FetchWithAuth(context.Background(), "x/", Request{})
	require.NoError(t, err)
	assert.True(t, env.Failed())
	assert.Equal(t, http.StatusConflict, env.Status)
}

func TestFetch_EmptyBody(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	env, err := c.FetchWithAuth(context.Background(), "x/", Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, env.Status)
}

func TestFetch_MalformedBody(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.FetchWithAuth(context.Background(), "x/", Request{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestFetch_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, "", &fakeCreds{token: "t"})
	require.NoError(t, err)

	_, err = c.FetchWithAuth(context.Background(), "x/", Request{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetch_CredentialReadError(t *testing.T) {
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	})
	creds.getErr = errors.New("disk gone")

	_, err := c.FetchWithAuth(context.Background(), "x/", Request{})
	assert.EqualError(t, err, "disk gone")
}

/*************
 * Upload
 *************/

func TestFetchUploadWithAuth_Multipart(t *testing.T) {
	type part struct{ name, file, ct, body string }
	var parts []part
	var auth string

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		mt, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mt)

		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			b, _ := io.ReadAll(p)
			parts = append(parts, part{p.FormName(), p.FileName(), p.Header.Get("Content-Type"), string(b)})
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "created"})
	})

	env, err := c.FetchUploadWithAuth(context.Background(), "up/",
		[]FormField{{Name: "title", Value: "t"}},
		[]FilePart{{Field: "images", FileName: "a.png", ContentType: "image/png", Content: strings.NewReader("PNG")}},
	)
	require.NoError(t, err)
	assert.Equal(t, "created", env.Message)
	assert.Equal(t, "Bearer tok-1", auth)
	assert.Equal(t, []part{
		{name: "title", body: "t"},
		{name: "images", file: "a.png", ct: "image/png", body: "PNG"},
	}, parts)
}

func TestFetchUploadWithAuth_401(t *testing.T) {
	c, creds, nav := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchUploadWithAuth(context.Background(), "up/", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, creds.token)
	assert.Equal(t, []string{SignInRoute}, nav.routes)
}

func TestOpenImage_DetectsContentType(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "photo.PNG")
	require.NoError(t, os.WriteFile(png, []byte("x"), 0o600))
	// PNG magic bytes without an extension
	raw := filepath.Join(dir, "raw")
	require.NoError(t, os.WriteFile(raw, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))

	p, err := openImage("images", png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.ContentType)
	assert.Equal(t, "photo.PNG", p.FileName)

	p, err = openImage("images", raw)
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.ContentType)

	_, err = openImage("images", filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}
