package video

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListSources_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.mp4", "a.MOV", "c.txt", "notes.md", "z.mkv",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListSources(dir)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.MOV"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "z.mkv"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestListSources_SingleFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.avi")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ListSources(file)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(got) != 1 || got[0] != file {
		t.Errorf("got %v, want [%s]", got, file)
	}
}

func TestListSources_Missing(t *testing.T) {
	if _, err := ListSources(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestOutputName(t *testing.T) {
	cases := map[string]string{
		"clips/mall.mp4":    "tracked_mall.mp4",
		"/abs/street.MKV":   "tracked_street.mp4",
		"plain":             "tracked_plain.mp4",
		"dir.v1/cam.02.avi": "tracked_cam.02.mp4",
	}
	for in, want := range cases {
		if got := OutputName(in); got != want {
			t.Errorf("OutputName(%q) = %q, want %q", in, got, want)
		}
	}
}
