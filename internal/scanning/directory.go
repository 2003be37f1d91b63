package scanning

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions lists the file extensions the directory walk picks up.
// Matching is case-insensitive.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
	".pdf":  true,
}

// IsSupportedImage reports whether the file name has a recognized
// image extension.
func IsSupportedImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// CollectImages lists the scannable image files under dir. When recursive
// is false only the top level is considered. Files come back in walk
// order, so repeated runs over the same tree scan in the same sequence.
func CollectImages(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if IsSupportedImage(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}
