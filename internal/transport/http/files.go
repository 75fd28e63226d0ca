package httptransport

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
)

// listFiles walks the downloads area. A missing root is not an error: the
// first download creates it.
func listFiles(root string) ([]entity.FileInfo, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []entity.FileInfo{}, nil
	}

	files := []entity.FileInfo{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil // raced with a delete, skip
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, entity.FileInfo{
			Name: d.Name(),
			Size: info.Size(),
			Path: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
