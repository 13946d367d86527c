package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestWalk_IncludeExclude(t *testing.T) {
	root := writeTree(t, map[string]string{
		"2024-01-02-hello.md":           "# hello",
		"go/2024-02-03-generics.md":     "# generics",
		"go/notes.txt":                  "not a post",
		"_drafts/2024-03-01-wip.md":     "# wip",
		"_site/2024-01-02-hello.md":     "# built copy",
		"life/2024-04-05-walk.markdown": "# walk",
	})

	files, err := Walk(WalkerConfig{
		RootDir: root,
		Include: []string{"**/*.md", "**/*.markdown"},
		Exclude: []string{"_drafts/**"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelPath)
	}
	want := []string{"2024-01-02-hello.md", "go/2024-02-03-generics.md", "life/2024-04-05-walk.markdown"}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalk_MaxFileSize(t *testing.T) {
	root := writeTree(t, map[string]string{
		"small.md": "x",
		"big.md":   string(make([]byte, 64)),
	})
	files, err := Walk(WalkerConfig{RootDir: root, MaxFileSize: 16})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].RelPath != "small.md" {
		t.Errorf("files = %+v, want only small.md", files)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Error("expected error for missing root")
	}
}

func TestMatchesPatterns(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"go/post.md", []string{"**/*.md"}, true},
		{"post.md", []string{"**/*.md"}, true},
		{"_drafts/x.md", []string{"_drafts/**"}, true},
		{"go/x.md", []string{"_drafts/**"}, false},
		{"deep/a/b/c.markdown", []string{"*.markdown"}, true},
	}
	for _, tt := range tests {
		if got := matchesAny(tt.path, tt.patterns); got != tt.want {
			t.Errorf("matchesAny(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
	if !MatchesInclude("anything", nil) {
		t.Error("empty include should match everything")
	}
	if MatchesExclude("anything", nil) {
		t.Error("empty exclude should match nothing")
	}
}
