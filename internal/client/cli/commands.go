package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/diarify/internal/client/api"
	"github.com/dmitrijs2005/diarify/internal/client/models"
)

// goTo queues target and renders it.
func (a *App) goTo(ctx context.Context, target string) error {
	a.router.Navigate(target)
	return a.router.Dispatch(ctx)
}

func (a *App) SignIn(ctx context.Context) error { return a.goTo(ctx, RouteSignIn) }
func (a *App) SignUp(ctx context.Context) error { return a.goTo(ctx, RouteSignUp) }
func (a *App) List(ctx context.Context) error   { return a.goTo(ctx, RouteHome) }
func (a *App) Write(ctx context.Context) error  { return a.goTo(ctx, RouteDiaryNew) }

func (a *App) Categories(ctx context.Context) error  { return a.goTo(ctx, RouteCategories) }
func (a *App) AddCategory(ctx context.Context) error { return a.goTo(ctx, RouteCategory) }

func (a *App) Show(ctx context.Context, id string) error {
	return a.goTo(ctx, "/diaries/"+id)
}

func (a *App) RenameCategory(ctx context.Context, id string) error {
	return a.goTo(ctx, "/categories/"+id+"/edit")
}

func (a *App) DeleteCategory(ctx context.Context, id string) error {
	return a.goTo(ctx, "/categories/"+id+"/delete")
}

// Search asks for a title fragment and a category and shows the matching
// diaries. Either answer may be left empty.
func (a *App) Search(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.List(ctx)
	}

	title, err := getSimpleText(a.reader, "Title contains (empty for any)", a.out)
	if err != nil {
		return err
	}
	categoryID, err := getOptionalID(a.reader, "Category id (empty for all)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	target := RouteHome
	if q := api.DiaryQuery(models.DiaryFilter{Title: title, CategoryID: categoryID}); q != "" {
		target += "?" + q
	}
	return a.goTo(ctx, target)
}

// SignOut revokes the credential. The local session is cleared even when
// the server cannot be reached.
func (a *App) SignOut(ctx context.Context) error {
	err := a.api.SignOut(ctx)
	a.router.Reset()
	// a rejected credential means the server already forgot it
	if err != nil && !errors.Is(err, api.ErrSessionExpired) {
		a.reportError(ctx, err)
		fmt.Fprintln(a.out, "Signed out locally.")
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func isID(s string) bool {
	id, err := strconv.ParseInt(s, 10, 64)
	return err == nil && id > 0
}
