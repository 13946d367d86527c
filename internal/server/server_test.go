package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/db"
	"github.com/ziadkadry99/blognav/internal/tree"
)

func testPosts() []content.Post {
	return []content.Post{
		{
			Record:     content.Record{Title: "Go 제네릭 입문", URL: "/go/generics/", Date: "2024-02-03", Tags: []string{"go"}, Content: "타입 매개변수를 소개합니다."},
			Categories: []string{"Programming", "Go"},
			Series:     "Go 101",
		},
		{
			Record:     content.Record{Title: "Walk", URL: "/walk/", Date: "2023-05-06", Tags: []string{"life"}, Content: "a walk in the park"},
			Categories: []string{"Life"},
		},
	}
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	posts := testPosts()
	return New(cfg, Deps{
		Index: content.NewStaticIndex(content.Records(posts)),
		Posts: posts,
		Store: database,
	})
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{})
	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Loaded  bool   `json:"index_loaded"`
		Records int    `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || !body.Loaded || body.Records != 2 {
		t.Errorf("health = %+v", body)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestSearchAPI(t *testing.T) {
	srv := newTestServer(t, Config{})

	var resp searchResponse
	w := get(t, srv, "/api/search?q=PARK")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.State != "results" || resp.Total != 1 || resp.Results[0].URL != "/walk/" {
		t.Errorf("response = %+v", resp)
	}
	if !strings.Contains(resp.Results[0].ExcerptHTML, "<mark>park</mark>") {
		t.Errorf("excerpt html = %q", resp.Results[0].ExcerptHTML)
	}

	w = get(t, srv, "/api/search?q=p")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.State != "idle" || len(resp.Results) != 0 {
		t.Errorf("short query response = %+v", resp)
	}
}

func TestSearchPanelAPI(t *testing.T) {
	srv := newTestServer(t, Config{NoResultsText: "Nothing found."})

	w := get(t, srv, "/api/search/panel?q="+"%EC%A0%9C%EB%84%A4%EB%A6%AD") // 제네릭
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<mark>제네릭</mark>") {
		t.Errorf("panel = %s", w.Body.String())
	}

	w = get(t, srv, "/api/search/panel?q=zzzz")
	if !strings.Contains(w.Body.String(), "Nothing found.") {
		t.Errorf("no-results panel = %s", w.Body.String())
	}
}

func TestTaxonomyAPI(t *testing.T) {
	srv := newTestServer(t, Config{})

	var entries []taxonomyEntry
	w := get(t, srv, "/api/taxonomy?kind=series")
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].URL != "/series/go-101/" || entries[0].Count != 1 {
		t.Errorf("series = %+v", entries)
	}

	w = get(t, srv, "/api/taxonomy")
	json.Unmarshal(w.Body.Bytes(), &entries)
	if len(entries) != 6 { // 3 categories, 2 tags, 1 series
		t.Errorf("entries = %d, want 6", len(entries))
	}
}

func TestTreeAPI(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("POST", "/api/tree/toggle?node=Programming", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", w.Code, w.Body.String())
	}

	var resp treeResponse
	json.Unmarshal(get(t, srv, "/api/tree").Body.Bytes(), &resp)
	for _, n := range resp.Nodes {
		if n.Collapsed != (n.ID == "Programming") {
			t.Errorf("%s collapsed = %v", n.ID, n.Collapsed)
		}
	}

	req = httptest.NewRequest("POST", "/api/tree/toggle?node=Nope", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown node status = %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/api/tree/expand-all", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if _, ok, _ := srv.store.Get(tree.DefaultStateKey); ok {
		t.Error("expand-all should clear the persisted state")
	}
}

func TestStaticSite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>blog</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Config{SiteDir: dir})
	w := get(t, srv, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1>blog</h1>") {
		t.Errorf("static = %d %q", w.Code, w.Body.String())
	}
}

func TestSearchSocketDebounces(t *testing.T) {
	srv := newTestServer(t, Config{Debounce: 50 * time.Millisecond})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/search"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello serverMessage
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != "hello" || hello.Session == "" {
		t.Fatalf("hello = %+v, %v", hello, err)
	}

	for _, v := range []string{"w", "wa", "wal", "walk"} {
		if err := conn.WriteJSON(clientEvent{Event: "onQueryChange", Value: v}); err != nil {
			t.Fatal(err)
		}
	}

	var results serverMessage
	if err := conn.ReadJSON(&results); err != nil {
		t.Fatalf("read results: %v", err)
	}
	if results.Type != "results" || results.Search == nil || results.Search.Query != "walk" {
		t.Fatalf("first message after burst = %+v", results)
	}
	if results.Session != hello.Session {
		t.Errorf("session = %q, want %q", results.Session, hello.Session)
	}
	if !strings.Contains(results.HTML, "search-result-item") {
		t.Errorf("html = %q", results.HTML)
	}

	var vis serverMessage
	if err := conn.ReadJSON(&vis); err != nil || vis.Type != "visibility" || vis.Visible == nil || !*vis.Visible {
		t.Fatalf("visibility = %+v, %v", vis, err)
	}

	conn.WriteJSON(clientEvent{Event: "onBogus"})
	var bad serverMessage
	if err := conn.ReadJSON(&bad); err != nil || bad.Type != "error" {
		t.Errorf("bad event reply = %+v, %v", bad, err)
	}

	conn.WriteJSON(clientEvent{Event: "onClick", Target: "elsewhere"})
	var hidden serverMessage
	if err := conn.ReadJSON(&hidden); err != nil || hidden.Visible == nil || *hidden.Visible {
		t.Errorf("click outside = %+v, %v", hidden, err)
	}
}
