package profiles_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Sl0thC0der/yt-download-ng/internal/profiles"
)

func writeConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"gytmdl.json", "flac.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "profiles")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "hifi.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestList(t *testing.T) {
	svc := profiles.New(writeConfigDir(t))

	got, err := svc.List()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := []string{"flac", "gytmdl", "profiles/hifi"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExists(t *testing.T) {
	svc := profiles.New(writeConfigDir(t))

	if !svc.Exists("gytmdl") {
		t.Fatal("expected gytmdl to exist")
	}
	if !svc.Exists("profiles/hifi") {
		t.Fatal("expected profiles/hifi to exist")
	}
	if svc.Exists("nope") {
		t.Fatal("unknown profile reported as existing")
	}
}

func TestListMissingDir(t *testing.T) {
	svc := profiles.New(filepath.Join(t.TempDir(), "missing"))
	if _, err := svc.List(); err == nil {
		t.Fatal("expected error for missing config dir")
	}
}
