package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ziadkadry99/blognav/internal/search"
	"github.com/ziadkadry99/blognav/internal/taxonomy"
	"github.com/ziadkadry99/blognav/internal/tree"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"index_loaded": s.index.Loaded(),
		"records":      len(s.index.Records()),
	})
}

// searchResponse is the wire form of search.Response.
type searchResponse struct {
	Query   string          `json:"query"`
	State   string          `json:"state"`
	Total   int             `json:"total"`
	Results []search.Result `json:"results"`
}

func toSearchResponse(resp search.Response) searchResponse {
	return searchResponse{Query: resp.Query, State: resp.State.String(), Total: resp.Total, Results: resp.Results}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	resp := s.engine.Search(r.URL.Query().Get("q"), s.index.Records())
	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

func (s *Server) handleSearchPanel(w http.ResponseWriter, r *http.Request) {
	resp := s.engine.Search(r.URL.Query().Get("q"), s.index.Records())
	out, err := search.RenderPanel(resp, search.RenderOptions{NoResultsText: s.cfg.NoResultsText})
	if err != nil {
		s.log.Error("rendering search panel", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

type taxonomyEntry struct {
	Kind  taxonomy.Kind `json:"kind"`
	Name  string        `json:"name"`
	Slug  string        `json:"slug"`
	URL   string        `json:"url"`
	Title string        `json:"title"`
	Count int           `json:"count"`
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	kind := taxonomy.Kind(r.URL.Query().Get("kind"))
	entries := []taxonomyEntry{}
	for _, p := range s.pages {
		if kind != "" && p.Kind != kind {
			continue
		}
		entries = append(entries, taxonomyEntry{
			Kind: p.Kind, Name: p.Name, Slug: p.Slug, URL: p.URL(), Title: p.Title, Count: len(p.Posts),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

type treeResponse struct {
	Nodes []tree.Node `json:"nodes"`
	HTML  string      `json:"html,omitempty"`
}

// newTree builds a Tree over the category nodes in rendered order.
func (s *Server) newTree() *tree.Tree {
	var nodes []tree.Node
	for _, name := range s.categories.Names() {
		nodes = append(nodes, tree.Node{ID: name})
	}
	return tree.New(nodes, s.store, tree.Options{StateKey: s.cfg.TreeStateKey, Logger: s.log})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	t := s.newTree()
	if _, err := t.Restore(); err != nil {
		s.log.Error("restoring tree state", "error", err)
		http.Error(w, "tree state unavailable", http.StatusInternalServerError)
		return
	}
	resp := treeResponse{Nodes: t.Nodes()}
	if resp.Nodes == nil {
		resp.Nodes = []tree.Node{}
	}
	if r.URL.Query().Get("html") == "1" {
		resp.HTML = taxonomy.RenderTree(s.categories)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTreeToggle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("node")
	if id == "" {
		http.Error(w, "node is required", http.StatusBadRequest)
		return
	}
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	t := s.newTree()
	if _, err := t.Restore(); err != nil {
		http.Error(w, "tree state unavailable", http.StatusInternalServerError)
		return
	}
	collapsed, err := t.Toggle(id)
	if errors.Is(err, tree.ErrUnknownNode) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("toggling tree node", "node", id, "error", err)
		http.Error(w, "toggle failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tree.Node{ID: id, Collapsed: collapsed})
}

func (s *Server) handleTreeExpandAll(w http.ResponseWriter, r *http.Request) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	t := s.newTree()
	if err := t.ExpandAll(); err != nil {
		s.log.Error("expanding tree", "error", err)
		http.Error(w, "expand failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{Nodes: t.Nodes()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
