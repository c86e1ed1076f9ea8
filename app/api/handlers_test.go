package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanulkim/blog-discovery/app/content"
	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/discovery"
	"github.com/hanulkim/blog-discovery/app/docs"
	"github.com/hanulkim/blog-discovery/app/tasks"
)

type mockContentStore struct {
	byType map[content.Type][]content.Item
	tags   map[content.Identity][]string
}

func (m *mockContentStore) GetPublishedByType(t content.Type) ([]content.Item, error) {
	return m.byType[t], nil
}

func (m *mockContentStore) GetPublishedWithTags(t content.Type) ([]content.Item, error) {
	return m.byType[t], nil
}

func (m *mockContentStore) GetByID(t content.Type, id string) (*content.Item, error) {
	for _, item := range m.byType[t] {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockContentStore) GetTagsFor(t content.Type, id string) ([]string, error) {
	return m.tags[content.Identity{Type: t, ID: id}], nil
}

func (m *mockContentStore) GetPublishedCount() (int, error) {
	n := 0
	for _, items := range m.byType {
		n += len(items)
	}
	return n, nil
}

type mockStatsStore struct{}

func (mockStatsStore) SumViewsInRange(t content.Type, id string, from, to time.Time) (int, error) {
	return 0, nil
}

func (mockStatsStore) SumViewsInRangeByType(t content.Type, from, to time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (mockStatsStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return 0, nil
}

type mockDocumentStore struct {
	docs map[string]*database.Document
}

func (m *mockDocumentStore) GetDocument(kind string) (*database.Document, error) {
	return m.docs[kind], nil
}

func (m *mockDocumentStore) PutDocument(kind, text, prevVersion string) (string, error) {
	return "v1", nil
}

type mockRegenerator struct {
	result *docs.Result
	err    error
}

func (m *mockRegenerator) Run(kind string) (*docs.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockScheduler struct {
	enqueued []tasks.TaskInterface
}

func (m *mockScheduler) Start() {}
func (m *mockScheduler) Stop()  {}
func (m *mockScheduler) EnqueueTask(task tasks.TaskInterface) error {
	m.enqueued = append(m.enqueued, task)
	return nil
}

func testConfigCache(t *testing.T) *docs.ConfigCache {
	t.Helper()

	dir := t.TempDir()
	body := `title: "My Blog"
settings:
  enabled: true
sections:
  - heading: "Posts"
    type: "post"
`
	if err := os.WriteFile(filepath.Join(dir, "llms.yml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cc := docs.NewConfigCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatal(err)
	}
	return cc
}

func testHandler(t *testing.T, contents *mockContentStore, documents *mockDocumentStore, regenerator *mockRegenerator) (*Handler, *mockScheduler) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := discovery.NewService(contents, mockStatsStore{})
	scheduler := &mockScheduler{}
	handler := NewHandler(engine, regenerator, contents, documents, testConfigCache(t), scheduler)
	return handler, scheduler
}

func performRequest(handler gin.HandlerFunc, method, path string, params gin.Params) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Params = params
	handler(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestGetRelatedHandler(t *testing.T) {
	contents := &mockContentStore{
		byType: map[content.Type][]content.Item{
			content.TypePost: {{ID: "1", Type: content.TypePost, Published: true}},
			content.TypeFaq: {
				{ID: "5", Type: content.TypeFaq, Title: "Q5", Tags: []string{"AI"}, Published: true},
			},
		},
		tags: map[content.Identity][]string{
			{Type: content.TypePost, ID: "1"}: {"AI"},
		},
	}
	handler, _ := testHandler(t, contents, &mockDocumentStore{}, &mockRegenerator{})

	w := performRequest(handler.GetRelated, "GET", "/related?source_type=post&source_id=1&type=faq", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []map[string]interface{} `json:"items"`
		Total int                      `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Expected 1 related item, got %d", resp.Total)
	}
}

func TestGetRelatedHandlerBadParams(t *testing.T) {
	handler, _ := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, &mockRegenerator{})

	w := performRequest(handler.GetRelated, "GET", "/related?source_type=video&source_id=1&type=faq", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad source_type, got %d", w.Code)
	}

	w = performRequest(handler.GetRelated, "GET", "/related?source_type=post&type=faq", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing source_id, got %d", w.Code)
	}
}

func TestGetRelatedHandlerEmptyResultIsList(t *testing.T) {
	handler, _ := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, &mockRegenerator{})

	w := performRequest(handler.GetRelated, "GET", "/related?source_type=post&source_id=missing&type=faq", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for zero matches, got %d", w.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp["items"]) != "[]" {
		t.Errorf("Expected empty items list, got %s", resp["items"])
	}
}

func TestGetDocumentByKind(t *testing.T) {
	documents := &mockDocumentStore{docs: map[string]*database.Document{
		"llms": {Kind: "llms", Content: "# My Blog\n", Version: "abc", UpdatedAt: time.Now()},
	}}
	handler, _ := testHandler(t, &mockContentStore{}, documents, &mockRegenerator{})

	w := performRequest(handler.GetDocumentByKind, "GET", "/documents/llms", gin.Params{{Key: "kind", Value: "llms"}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "# My Blog\n" {
		t.Errorf("Unexpected body: %q", w.Body.String())
	}
	if w.Header().Get("X-Document-Version") != "abc" {
		t.Errorf("Expected version header abc, got %q", w.Header().Get("X-Document-Version"))
	}
}

func TestGetDocumentByKindNotGenerated(t *testing.T) {
	handler, _ := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, &mockRegenerator{})

	w := performRequest(handler.GetDocumentByKind, "GET", "/documents/llms", gin.Params{{Key: "kind", Value: "llms"}})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for never-generated document, got %d", w.Code)
	}
}

func TestGetDocumentByKindUnknownKind(t *testing.T) {
	handler, _ := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, &mockRegenerator{})

	w := performRequest(handler.GetDocumentByKind, "GET", "/documents/nope", gin.Params{{Key: "kind", Value: "nope"}})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown kind, got %d", w.Code)
	}
}

func TestAPIRegenerateDocument(t *testing.T) {
	regenerator := &mockRegenerator{result: &docs.Result{
		Text:    "# My Blog\n",
		Version: "v2",
		Diff: docs.Diff{
			Added: []docs.Entry{{Title: "New Post", URL: "https://blog.test/posts/1"}},
		},
	}}
	handler, _ := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, regenerator)

	w := performRequest(handler.APIRegenerateDocument, "POST", "/api/documents/llms/regenerate", gin.Params{{Key: "kind", Value: "llms"}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Version string `json:"version"`
		Diff    struct {
			Added   []map[string]string `json:"added"`
			Removed []map[string]string `json:"removed"`
		} `json:"diff"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Version != "v2" {
		t.Errorf("Expected version v2, got %s", resp.Version)
	}
	if len(resp.Diff.Added) != 1 || resp.Diff.Added[0]["url"] != "https://blog.test/posts/1" {
		t.Errorf("Unexpected diff payload: %+v", resp.Diff)
	}
	if len(resp.Diff.Removed) != 0 {
		t.Errorf("Expected empty removed list, got %+v", resp.Diff.Removed)
	}
}

func TestAPIRegenerateDocumentConflict(t *testing.T) {
	regenerator := &mockRegenerator{err: database.ErrVersionConflict}
	handler, _ := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, regenerator)

	w := performRequest(handler.APIRegenerateDocument, "POST", "/api/documents/llms/regenerate", gin.Params{{Key: "kind", Value: "llms"}})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on version conflict, got %d", w.Code)
	}
}

func TestAPIReloadDocumentEnqueuesTask(t *testing.T) {
	handler, scheduler := testHandler(t, &mockContentStore{}, &mockDocumentStore{}, &mockRegenerator{})

	w := performRequest(handler.APIReloadDocument, "POST", "/api/documents/llms/reload", gin.Params{{Key: "kind", Value: "llms"}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(scheduler.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued task, got %d", len(scheduler.enqueued))
	}
	if scheduler.enqueued[0].GetKind() != "llms" {
		t.Errorf("Expected task for kind llms, got %s", scheduler.enqueued[0].GetKind())
	}
}

func TestQueryIntClamping(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/?limit=3&window=999&bad=abc", nil)
	if got := queryInt(c, "limit", 5, maxLimit); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
	if got := queryInt(c, "window", 7, maxWindowDays); got != maxWindowDays {
		t.Errorf("Expected clamp to %d, got %d", maxWindowDays, got)
	}
	if got := queryInt(c, "bad", 5, maxLimit); got != 5 {
		t.Errorf("Expected default 5 for unparsable value, got %d", got)
	}
	if got := queryInt(c, "missing", 5, maxLimit); got != 5 {
		t.Errorf("Expected default 5 for missing value, got %d", got)
	}
}
