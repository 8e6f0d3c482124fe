package tool

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DisplayName strips the extension from fileName for use as the editable
// document name (txt.txt -> txt).
func DisplayName(fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	if base == "" {
		return fileName
	}
	return base
}

// StatFile returns name, size and the file info for a regular file path.
func StatFile(path string) (string, int64, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, nil, fmt.Errorf("failed to stat file: %v", err)
	}
	if info.IsDir() {
		return "", 0, nil, fmt.Errorf("path is a directory, not a file")
	}
	return filepath.Base(path), info.Size(), info, nil
}

// CollectFiles expands the given paths into regular file paths, walking
// directories recursively. Hidden entries (dot-prefixed) are skipped.
func CollectFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %v", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") && path != p {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk folder %s: %v", p, err)
		}
	}
	return out, nil
}
