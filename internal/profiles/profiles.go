package profiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultProfile is used when a download request does not name one.
const DefaultProfile = "gytmdl"

// Service enumerates the read-only quality profiles the download tool
// accepts. A profile's identity is its config filename stem; profiles in
// the profiles/ subdirectory are namespaced as "profiles/<stem>".
type Service struct {
	dir string
}

func New(configDir string) *Service {
	return &Service{dir: configDir}
}

// List returns the sorted profile names, re-read from disk on every call.
func (s *Service) List() ([]string, error) {
	names, err := stems(s.dir, "")
	if err != nil {
		return nil, err
	}
	if sub, err := stems(filepath.Join(s.dir, "profiles"), "profiles/"); err == nil {
		names = append(names, sub...)
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether name resolves to a known profile.
func (s *Service) Exists(name string) bool {
	names, err := s.List()
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func stems(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, prefix+strings.TrimSuffix(e.Name(), ".json"))
	}
	return names, nil
}
