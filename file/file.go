package file

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func IsXMLPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// GatherXMLPaths walks root and returns legacy documents (.xml), at most maxNum
// of them unless maxNum is 0.
func GatherXMLPaths(fsys afero.Fs, root string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && IsXMLPath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := afero.Walk(fsys, root, walk); err != nil {
		return nil, err
	}
	return res, nil
}

// JSONPathFor is the sibling path a normalized document is written to.
func JSONPathFor(xmlPath string) string {
	return strings.TrimSuffix(xmlPath, filepath.Ext(xmlPath)) + ".json"
}
