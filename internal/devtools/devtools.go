// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package devtools contains helpers shared by the development tools.
package devtools

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FindRoot returns the nearest directory containing a go.mod file, starting
// at dir and walking up. If there is none, it returns dir itself.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for cur := dir; ; {
		_, err := os.Stat(filepath.Join(cur, "go.mod"))
		if err == nil {
			return cur, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir, nil
		}
		cur = parent
	}
}
