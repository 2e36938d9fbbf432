package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCollect(t *testing.T) {
	root := writeTree(t, map[string]string{
		"alps/color.png": "png",
		"alps/mask.PNG":  "mask",
		"readme.txt":     "text",
	})

	files, err := collect(root, false)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "alps/color.png,alps/mask.PNG" {
		t.Errorf("names = %s", got)
	}

	all, err := collect(root, true)
	if err != nil {
		t.Fatalf("collect all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("collect all = %d files, want 3", len(all))
	}
}

func TestPackListExtract(t *testing.T) {
	root := writeTree(t, map[string]string{"alps/color.png": "pixels"})
	archivePath := filepath.Join(t.TempDir(), "maps.grf")

	var out bytes.Buffer
	if err := cmdPack([]string{archivePath, root}, &out); err != nil {
		t.Fatalf("pack: %v", err)
	}

	out.Reset()
	if err := cmdList([]string{archivePath}, &out); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "alps/color.png" {
		t.Errorf("list = %q", got)
	}

	dest := t.TempDir()
	if err := cmdExtract([]string{archivePath, "ALPS\\color.png", dest}, &out); err != nil {
		t.Fatalf("extract: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "alps", "color.png"))
	if err != nil || string(data) != "pixels" {
		t.Errorf("extracted %q, %v", data, err)
	}
}

func TestPackEmptyDir(t *testing.T) {
	root := writeTree(t, map[string]string{"notes.md": "x"})
	err := cmdPack([]string{filepath.Join(t.TempDir(), "x.grf"), root}, &bytes.Buffer{})
	if err == nil {
		t.Error("expected error when nothing to pack")
	}
}

func TestMatch(t *testing.T) {
	names := []string{"b/mask.png", "a/color.png", "a/color.tga"}
	tests := []struct {
		pattern string
		want    string
	}{
		{"", "a/color.png,a/color.tga,b/mask.png"},
		{"*.png", "a/color.png,b/mask.png"},
		{"a/", "a/color.png,a/color.tga"},
	}
	for _, tt := range tests {
		if got := strings.Join(match(names, tt.pattern), ","); got != tt.want {
			t.Errorf("match(%q) = %s, want %s", tt.pattern, got, tt.want)
		}
	}
}
