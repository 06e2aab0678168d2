package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/diarify/internal/client/api"
	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/dmitrijs2005/diarify/internal/common"
	"golang.org/x/sync/errgroup"
)

// Input indirections, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getLines      = GetLines
	getOptionalID = GetOptionalID
	getConfirm    = GetConfirm
)

func (a *App) registerRoutes() {
	r := a.router
	r.Handle(RouteSignIn, false, a.signInView)
	r.Handle(RouteSignUp, false, a.signUpView)
	r.Handle(RouteHome, true, a.diaryListView)
	r.Handle(RouteDiaryNew, true, a.writeView)
	r.Handle(RouteDiary, true, a.diaryDetailView)
	r.Handle(RouteCategories, true, a.categoriesView)
	r.Handle(RouteCategory, true, a.addCategoryView)
	r.Handle(RouteCatEdit, true, a.renameCategoryView)
	r.Handle(RouteCatDelete, true, a.deleteCategoryView)
}

func (a *App) signInView(ctx context.Context, _ Params) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.SignIn(ctx, models.SignInRequest{Username: username, Password: string(password)})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Nickname)
	a.router.Navigate(RouteHome)
	return nil
}

func (a *App) signUpView(ctx context.Context, _ Params) error {
	var in models.SignUpRequest
	var err error

	if in.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if in.Nickname, err = getSimpleText(a.reader, "Nickname", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	if _, err := a.api.SignUp(ctx, in); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. Please sign in.")
	a.router.Navigate(RouteSignIn)
	return nil
}

// diaryListView renders the home page. The query may carry title and
// category_id filters. A failing category lookup only costs the names.
func (a *App) diaryListView(ctx context.Context, p Params) error {
	filter := models.DiaryFilter{Title: p.Query.Get("title")}
	if raw := p.Query.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: category_id=%q", ErrBadParam, raw)
		}
		filter.CategoryID = &id
	}
	searching := filter.Title != "" || filter.CategoryID != nil

	diaries, err := a.api.GetDiaries(ctx, filter)
	if err != nil {
		return err
	}

	categories, err := a.api.GetCategories(ctx)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return err
		}
		a.log.Warn(ctx, "failed to load categories", "error", err)
	}

	if len(diaries) == 0 {
		if searching {
			fmt.Fprintln(a.out, "No diaries match your search.")
		} else {
			fmt.Fprintln(a.out, "No diaries yet. Type 'write' to add one.")
		}
		return nil
	}

	for _, d := range diaries {
		line := fmt.Sprintf("#%d  %s  (%s)", d.ID, d.Title, formatDate(d.CreatedAt))
		if label := categoryLabel(categories, d.CategoryID); label != "" {
			line += "  [" + label + "]"
		}
		fmt.Fprintln(a.out, line)
		fmt.Fprintln(a.out, "    "+truncate(d.Content, maxSnippetLength))
	}
	return nil
}

// diaryDetailView loads the diary and the category list concurrently and
// renders nothing unless both succeed.
func (a *App) diaryDetailView(ctx context.Context, p Params) error {
	id, err := p.ID("id")
	if err != nil {
		return err
	}

	var (
		diary      *models.Diary
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		diary, err = a.api.GetDiaryByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = a.api.GetCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "#%d %s\n", diary.ID, diary.Title)
	if label := categoryLabel(categories, diary.CategoryID); label != "" {
		fmt.Fprintf(a.out, "Category: %s\n", label)
	}
	fmt.Fprintf(a.out, "Written: %s   Updated: %s\n\n", formatDate(diary.CreatedAt), formatDate(diary.UpdatedAt))
	fmt.Fprintln(a.out, diary.Content)

	if len(diary.Images) > 0 {
		fmt.Fprintln(a.out, "\nImages:")
		for _, img := range diary.Images {
			fmt.Fprintf(a.out, "  %s (%s, %s)\n    %s\n", img.FileName, img.ContentType, humanSize(img.FileSize), a.api.ImageURL(img))
		}
	}
	return nil
}

func (a *App) writeView(ctx context.Context, _ Params) error {
	var d models.DiaryDraft
	var err error

	if d.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if d.Content, err = getMultiline(a.reader, "Content", a.out); err != nil {
		return err
	}

	categories, err := a.api.GetCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		a.printCategories(categories)
		if d.CategoryID, err = getOptionalID(a.reader, "Category id (empty for none)", a.out); err != nil {
			return err
		}
	}

	if d.Images, err = getLines(a.reader, "Image file paths, one per line", a.out); err != nil {
		return err
	}

	diary, err := a.api.CreateDiary(ctx, d)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Diary #%d saved.\n", diary.ID)
	a.router.Navigate("/diaries/" + strconv.FormatInt(diary.ID, 10))
	return nil
}

func (a *App) printCategories(categories []models.Category) {
	for _, c := range categories {
		fmt.Fprintf(a.out, "  %d: %s\n", c.ID, c.Name)
	}
}

func (a *App) categoriesView(ctx context.Context, _ Params) error {
	categories, err := a.api.GetCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(a.out, "No categories yet. Type 'addcategory' to add one.")
		return nil
	}
	a.printCategories(categories)
	return nil
}

func (a *App) addCategoryView(ctx context.Context, _ Params) error {
	name, err := getSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	c, err := a.api.CreateCategory(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category #%d %q created.\n", c.ID, c.Name)
	return nil
}

func (a *App) renameCategoryView(ctx context.Context, p Params) error {
	id, err := p.ID("id")
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "New name", a.out)
	if err != nil {
		return err
	}
	c, err := a.api.UpdateCategory(ctx, id, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category #%d renamed to %q.\n", c.ID, c.Name)
	return nil
}

func (a *App) deleteCategoryView(ctx context.Context, p Params) error {
	id, err := p.ID("id")
	if err != nil {
		return err
	}
	ok, err := getConfirm(a.reader, fmt.Sprintf("Delete category #%d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.api.DeleteCategory(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category #%d deleted.\n", id)
	return nil
}
