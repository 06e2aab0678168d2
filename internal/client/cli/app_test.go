package cli

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOnline_SwitchesMode(t *testing.T) {
	a, _ := newTestApp(t, "", &fakeAPI{}, &fakeSession{})
	p := &fakePinger{}
	a.prober = p

	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.getMode())

	p.err = errors.New("unreachable")
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.getMode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	a, _ := newTestApp(t, "", &fakeAPI{}, &fakeSession{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.getMode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestGetStatus(t *testing.T) {
	fs := &fakeSession{}
	a, _ := newTestApp(t, "", &fakeAPI{}, fs)

	assert.Equal(t, "(offline)", a.getStatus())

	fs.loggedIn = true
	fs.user = &models.User{Nickname: "Kim"}
	a.setMode(ModeOnline)
	assert.Equal(t, "(Kim online)", a.getStatus())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestClose_JoinsErrors(t *testing.T) {
	a, _ := newTestApp(t, "", &fakeAPI{}, &fakeSession{})
	boom := errors.New("boom")
	closed := 0
	a.closers = []io.Closer{
		closerFunc(func() error { closed++; return boom }),
		closerFunc(func() error { closed++; return nil }),
	}

	assert.ErrorIs(t, a.Close(), boom)
	assert.Equal(t, 2, closed)
}

func TestRun_SignedOutStartsAtSignIn(t *testing.T) {
	captureOutput(t)
	fa := &fakeAPI{signIn: func(models.SignInRequest) (*models.User, error) {
		return nil, &models.ServerError{Status: 401, Message: "invalid username or password"}
	}}
	a, out := newTestApp(t, "kim\nexit\n", fa, &fakeSession{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Run(ctx)

	assert.Equal(t, []string{"signin kim/pw"}, fa.calls)
	assert.Contains(t, out.String(), "Welcome to Diarify")
}

func TestRun_SignedInStartsAtHome(t *testing.T) {
	captureOutput(t)
	fa := &fakeAPI{}
	a, _ := newTestApp(t, "quit\n", fa, &fakeSession{loggedIn: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Run(ctx)

	assert.Equal(t, []string{"diaries", "categories"}, fa.calls)
}
