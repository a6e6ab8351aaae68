package articles

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/article"
	"github.com/iammorganparry/articles/internal/request"
	"github.com/iammorganparry/articles/internal/status"
)

// fakeGateway behaves like the real server: it owns the authoritative list and
// assigns increasing ids. Setting fail makes every call return an error.
type fakeGateway struct {
	list   []article.Article
	nextID int
	fail   bool
	calls  int
	tokens []string
}

func newFakeGateway(list ...article.Article) *fakeGateway {
	g := &fakeGateway{nextID: 1}
	for _, a := range list {
		g.list = append(g.list, a)
		if a.ID >= g.nextID {
			g.nextID = a.ID + 1
		}
	}
	return g
}

var errRejected = &api.Error{Status: 500, Message: "boom"}

func (g *fakeGateway) record(token string) error {
	g.calls++
	g.tokens = append(g.tokens, token)
	if g.fail {
		return errRejected
	}
	return nil
}

func (g *fakeGateway) snapshot() []article.Article {
	return append([]article.Article(nil), g.list...)
}

func (g *fakeGateway) ListArticles(ctx context.Context, token string) (*api.ListResponse, error) {
	if err := g.record(token); err != nil {
		return nil, err
	}
	return &api.ListResponse{Articles: g.snapshot(), Message: "Here are your articles, foo!"}, nil
}

func (g *fakeGateway) CreateArticle(ctx context.Context, token string, in article.Input) (*api.ArticleResponse, error) {
	if err := g.record(token); err != nil {
		return nil, err
	}
	a := article.Article{ID: g.nextID, Title: in.Title, Text: in.Text, Topic: in.Topic}
	g.nextID++
	g.list = append(g.list, a)
	return &api.ArticleResponse{Article: a, Message: "Well done, foo. Great article!"}, nil
}

func (g *fakeGateway) UpdateArticle(ctx context.Context, token string, id int, in article.Input) (*api.ArticleResponse, error) {
	if err := g.record(token); err != nil {
		return nil, err
	}
	i := article.IndexOf(g.list, id)
	if i < 0 {
		return nil, &api.Error{Status: 404}
	}
	g.list[i] = article.Article{ID: id, Title: in.Title, Text: in.Text, Topic: in.Topic}
	return &api.ArticleResponse{Article: g.list[i], Message: "server says nice update"}, nil
}

func (g *fakeGateway) DeleteArticle(ctx context.Context, token string, id int) (*api.ListResponse, error) {
	if err := g.record(token); err != nil {
		return nil, err
	}
	i := article.IndexOf(g.list, id)
	if i < 0 {
		return nil, &api.Error{Status: 404}
	}
	g.list = append(g.list[:i], g.list[i+1:]...)
	return &api.ListResponse{Articles: g.snapshot(), Message: fmt.Sprintf("Article %d was deleted, foo!", id)}, nil
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestController(gw Gateway, token string) (*Controller, *status.Tracker, *status.Router) {
	tracker := status.NewTracker()
	router := status.NewRouter(status.ScreenArticles)
	return NewController(gw, staticToken(token), tracker, router, nil), tracker, router
}

// run returns a settle-on-the-spot helper: run(t)(c.Create(in))
func run(t *testing.T) func(request.Effect, error) {
	t.Helper()
	return func(eff request.Effect, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected begin error: %v", err)
		}
		request.Run(context.Background(), eff)
	}
}

func seed() []article.Article {
	return []article.Article{
		{ID: 1, Title: "Closures", Text: "Functions remember scope", Topic: article.TopicJavaScript},
		{ID: 2, Title: "Hooks", Text: "useState and friends", Topic: article.TopicReact},
	}
}

func ids(list []article.Article) []int {
	out := make([]int, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRefresh(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, router := newTestController(gw, "tok")
	tracker.Set("stale")

	eff, err := c.Refresh()
	if tracker.Message() != "" || !tracker.Loading() {
		t.Errorf("begin should clear the message and raise loading")
	}
	run(t)(eff, err)

	if c.Len() != 2 {
		t.Fatalf("expected 2 articles, got %d", c.Len())
	}
	if tracker.Message() != "Here are your articles, foo!" {
		t.Errorf("message = %q", tracker.Message())
	}
	if tracker.Loading() {
		t.Error("loading should be lowered")
	}
	if router.Current() != status.ScreenArticles {
		t.Errorf("screen = %s, want articles", router.Current())
	}
	if gw.tokens[0] != "tok" {
		t.Errorf("gateway got token %q", gw.tokens[0])
	}
}

func TestRefreshWithoutToken(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, router := newTestController(gw, "")

	eff, err := c.Refresh()
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if eff != nil {
		t.Error("expected no effect without a token")
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times, want 0", gw.calls)
	}
	if router.Current() != status.ScreenLogin {
		t.Errorf("screen = %s, want login", router.Current())
	}
	if tracker.Loading() {
		t.Error("loading must not be raised")
	}
}

func TestRefreshRejected(t *testing.T) {
	gw := newFakeGateway(seed()...)
	gw.fail = true
	c, tracker, router := newTestController(gw, "expired")

	eff, err := c.Refresh()
	run(t)(eff, err)

	if router.Current() != status.ScreenLogin {
		t.Errorf("screen = %s, want login", router.Current())
	}
	if tracker.Loading() {
		t.Error("loading should be lowered after failure")
	}
	if c.Len() != 0 {
		t.Errorf("collection should be untouched, got %d", c.Len())
	}
}

func TestCreate(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())

	eff, err := c.Create(article.Input{Title: "Streams", Text: "Pipe all the things", Topic: article.TopicNode})
	run(t)(eff, err)

	list := c.Articles()
	if len(list) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(list))
	}
	if last := list[2]; last.ID != 3 || last.Title != "Streams" {
		t.Errorf("new article not appended at the end: %+v", last)
	}
	if tracker.Message() != "Well done, foo. Great article!" {
		t.Errorf("message = %q", tracker.Message())
	}
}

func TestCreateFailure(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())
	before := c.Version()

	gw.fail = true
	run(t)(c.Create(article.Input{Title: "t", Text: "x", Topic: article.TopicNode}))

	if c.Len() != 2 {
		t.Errorf("collection changed on failure: %d", c.Len())
	}
	if c.Version() != before {
		t.Error("version must not change on failure")
	}
	if tracker.Message() != MsgCreateFailed {
		t.Errorf("message = %q, want %q", tracker.Message(), MsgCreateFailed)
	}
	if tracker.Loading() {
		t.Error("loading should be lowered")
	}
}

func TestUpdate(t *testing.T) {
	gw := newFakeGateway(append(seed(), article.Article{ID: 3, Title: "Events", Text: "emit", Topic: article.TopicNode})...)
	c, tracker, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())
	c.Select(2)

	run(t)(c.Update(2, article.Input{Title: "Hooks v2", Text: "useReducer", Topic: article.TopicReact}))

	list := c.Articles()
	if !equalIDs(ids(list), []int{1, 2, 3}) {
		t.Fatalf("order changed: %v", ids(list))
	}
	if list[1].Title != "Hooks v2" || list[1].Text != "useReducer" {
		t.Errorf("entry not replaced: %+v", list[1])
	}
	if tracker.Message() != MsgUpdated {
		t.Errorf("message = %q, want fixed confirmation %q", tracker.Message(), MsgUpdated)
	}
	if _, ok := c.SelectedID(); ok {
		t.Error("selection should be cleared after update")
	}
}

func TestUpdateFailure(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())
	c.Select(1)

	gw.fail = true
	run(t)(c.Update(1, article.Input{Title: "x", Text: "y", Topic: article.TopicNode}))

	if c.Articles()[0].Title != "Closures" {
		t.Error("collection changed on failure")
	}
	if id, ok := c.SelectedID(); !ok || id != 1 {
		t.Error("selection should be kept on failure")
	}
	if tracker.Message() != MsgUpdateFailed {
		t.Errorf("message = %q, want %q", tracker.Message(), MsgUpdateFailed)
	}
	if tracker.Loading() {
		t.Error("loading should be lowered")
	}
}

func TestDelete(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())

	run(t)(c.Delete(1))

	if !equalIDs(ids(c.Articles()), []int{2}) {
		t.Fatalf("got ids %v, want [2]", ids(c.Articles()))
	}
	if tracker.Message() != "Article 1 was deleted, foo!" {
		t.Errorf("message = %q", tracker.Message())
	}
}

func TestDeleteFailure(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())

	gw.fail = true
	run(t)(c.Delete(1))

	if c.Len() != 2 {
		t.Errorf("collection changed on failure: %d", c.Len())
	}
	if tracker.Message() != MsgDeleteFailed {
		t.Errorf("message = %q, want %q", tracker.Message(), MsgDeleteFailed)
	}
}

func TestBusyRejectsSecondRequest(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, tracker, _ := newTestController(gw, "tok")

	first, err := c.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(article.Input{Title: "t", Text: "x", Topic: article.TopicNode}); !errors.Is(err, status.ErrBusy) {
		t.Fatalf("second request err = %v, want ErrBusy", err)
	}

	request.Run(context.Background(), first)
	if tracker.Loading() {
		t.Error("loading should be lowered once the first request settles")
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", gw.calls)
	}
}

func TestSuccessfulSequencesMirrorServer(t *testing.T) {
	type step struct {
		op string
		id int
	}
	sequences := [][]step{
		{{"create", 0}, {"create", 0}, {"delete", 1}, {"update", 3}},
		{{"delete", 2}, {"delete", 1}, {"create", 0}, {"update", 3}},
		{{"update", 1}, {"create", 0}, {"create", 0}, {"delete", 3}, {"create", 0}},
	}

	for i, seq := range sequences {
		t.Run(fmt.Sprintf("sequence %d", i), func(t *testing.T) {
			gw := newFakeGateway(seed()...)
			c, _, _ := newTestController(gw, "tok")
			run(t)(c.Refresh())

			in := article.Input{Title: "t", Text: "x", Topic: article.TopicReact}
			for _, s := range seq {
				switch s.op {
				case "create":
					run(t)(c.Create(in))
				case "update":
					run(t)(c.Update(s.id, in))
				case "delete":
					run(t)(c.Delete(s.id))
				}
			}

			got := ids(c.Articles())
			want := ids(gw.list)
			if !equalIDs(got, want) {
				t.Fatalf("client ids %v, server ids %v", got, want)
			}
			seen := map[int]bool{}
			for _, id := range got {
				if seen[id] {
					t.Fatalf("duplicate id %d in %v", id, got)
				}
				seen[id] = true
			}
		})
	}
}

func TestDuplicateIDsCollapse(t *testing.T) {
	gw := newFakeGateway()
	gw.list = []article.Article{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}, {ID: 2, Title: "c"}}
	c, _, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())

	if !equalIDs(ids(c.Articles()), []int{1, 2}) {
		t.Fatalf("got %v", ids(c.Articles()))
	}
}

func TestSelection(t *testing.T) {
	gw := newFakeGateway(seed()...)
	c, _, _ := newTestController(gw, "tok")
	run(t)(c.Refresh())

	c.Select(2)
	if a, ok := c.Selected(); !ok || a.Title != "Hooks" {
		t.Errorf("Selected() = %+v, %v", a, ok)
	}

	run(t)(c.Delete(2))
	if _, ok := c.Selected(); ok {
		t.Error("dangling selection should resolve to none")
	}
	if _, ok := c.SelectedID(); !ok {
		t.Error("raw selection id is kept until cleared")
	}

	c.ClearSelection()
	if _, ok := c.SelectedID(); ok {
		t.Error("selection should be cleared")
	}
}
