package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(s string) error { f.calls = append(f.calls, s); return nil }

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) SignIn(ctx context.Context) error {
	f.loggedIn = true
	return f.record("signin")
}
func (f *fakeExec) SignUp(ctx context.Context) error { return f.record("signup") }
func (f *fakeExec) SignOut(ctx context.Context) error {
	f.loggedIn = false
	return f.record("signout")
}
func (f *fakeExec) List(ctx context.Context) error   { return f.record("list") }
func (f *fakeExec) Search(ctx context.Context) error { return f.record("search") }
func (f *fakeExec) Show(ctx context.Context, id string) error {
	return f.record("show " + id)
}
func (f *fakeExec) Write(ctx context.Context) error       { return f.record("write") }
func (f *fakeExec) Categories(ctx context.Context) error  { return f.record("categories") }
func (f *fakeExec) AddCategory(ctx context.Context) error { return f.record("addcategory") }
func (f *fakeExec) RenameCategory(ctx context.Context, id string) error {
	return f.record("renamecategory " + id)
}
func (f *fakeExec) DeleteCategory(ctx context.Context, id string) error {
	return f.record("deletecategory " + id)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(strings.ReplaceAll(toString(v), "\n", " "))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.Join([]string{
		"help",
		"signin",
		"help",
		"l",
		"search",
		"show 12",
		"write",
		"categories",
		"addcategory",
		"renamecategory 3",
		"deletecategory 4",
		"logout",
		"register",
		"",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"signin", "list", "search", "show 12", "write", "categories", "addcategory",
		"renamecategory 3", "deletecategory 4", "signout", "signup",
	}, exec.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(offline)" }, rdr("help\nquit\n"))
	assert.Contains(t, *out, helpSignedOut)
	assert.Contains(t, *out, "diarify (offline)>")

	*out = nil
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, rdr("help\nquit\n"))
	assert.Contains(t, *out, helpSignedIn)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("show\nshow abc\nrenamecategory 0\nfoobar\nquit\n"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: show <id>")
	assert.Contains(t, *out, "Usage: renamecategory <id>")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_EndsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("signup"))
	assert.Equal(t, []string{"signup"}, exec.calls)
}
