package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/diarify/internal/client/api"
	"github.com/dmitrijs2005/diarify/internal/client/config"
	"github.com/dmitrijs2005/diarify/internal/client/health"
	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/dmitrijs2005/diarify/internal/client/session"
	"github.com/dmitrijs2005/diarify/internal/client/store"
	"github.com/dmitrijs2005/diarify/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// diaryAPI is the part of api.Client the views use.
type diaryAPI interface {
	SignIn(ctx context.Context, in models.SignInRequest) (*models.User, error)
	SignUp(ctx context.Context, in models.SignUpRequest) (int64, error)
	SignOut(ctx context.Context) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetDiaries(ctx context.Context, f models.DiaryFilter) ([]models.Diary, error)
	GetDiaryByID(ctx context.Context, id int64) (*models.Diary, error)
	CreateDiary(ctx context.Context, d models.DiaryDraft) (*models.Diary, error)
	ImageURL(img models.DiaryImage) string
}

type sessionState interface {
	IsLoggedIn(ctx context.Context) bool
	User() *models.User
	Clear(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	api     diaryAPI
	session sessionState
	prober  pinger
	router  *Router
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the local store, restores the session and wires the API
// client, the router and the health prober.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, c.StorePath)
	if err != nil {
		log.Error(ctx, "error initializing local store", "error", err)
		return nil, err
	}

	sess := session.New(store.NewSQLiteRepository(db))
	if err := sess.Restore(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := api.New(c.APIBaseURL, c.MediaBaseURL, sess,
		api.WithTimeout(c.RequestTimeout), api.WithLogger(log.With("component", "api")))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	prober, err := health.Dial(c.HealthAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, client, sess, prober, log, bufio.NewReader(os.Stdin), os.Stdout)
	client.SetNavigator(a.router)
	a.closers = []io.Closer{prober, db}
	return a, nil
}

func newApp(c *config.Config, apiClient diaryAPI, sess sessionState, p pinger, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	a := &App{
		config:  c,
		api:     apiClient,
		session: sess,
		prober:  p,
		log:     log,
		reader:  r,
		out:     w,
		mode:    ModeOffline,
	}
	a.router = NewRouter(a.session.IsLoggedIn, a.denied, a.reportError)
	a.registerRoutes()
	return a
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn(context.Background())
}

func (a *App) denied(ctx context.Context) {
	if err := a.session.Clear(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
	}
	fmt.Fprintln(a.out, "Please sign in first.")
}

func (a *App) reportError(ctx context.Context, err error) {
	if errors.Is(err, api.ErrSessionExpired) {
		fmt.Fprintln(a.out, "Your session has expired. Please sign in again.")
		return
	}
	if errors.Is(err, api.ErrUnavailable) {
		fmt.Fprintln(a.out, "Server is unavailable, try again later.")
		return
	}
	a.log.Debug(ctx, "view failed", "route", a.router.Current(), "error", err)
	fmt.Fprintln(a.out, "Error:", err)
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil && a.isLoggedIn() {
		s = u.Nickname + " "
	}
	s += string(a.getMode())
	return fmt.Sprintf("(%s)", s)
}

// checkOnline probes the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.prober.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Run shows the landing route, starts the connectivity watcher and blocks
// in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Diarify (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if a.isLoggedIn() {
		a.router.Navigate(RouteHome)
	} else {
		a.router.Navigate(RouteSignIn)
	}
	_ = a.router.Dispatch(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
