// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package rewrite

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// FilesOptions select the files returned by [Files].
type FilesOptions struct {
	// Ext is the suffix a file name must end with. It's matched exactly
	// and is case-sensitive.
	Ext string
	// Exclude holds doublestar patterns (see [doublestar.Match]) matched
	// against slash-separated paths relative to the root and against
	// base names. Matching directories are not descended into.
	Exclude []string
}

// Files returns paths of the files under root whose names end with
// opts.Ext, in depth-first order with directory entries sorted by name.
//
// Entries whose names start with a dot are skipped, and hidden
// directories are not descended into. Symbolic links are not followed.
func Files(root string, opts FilesOptions) ([]string, error) {
	for _, pat := range opts.Exclude {
		if !doublestar.ValidatePattern(pat) {
			return nil, errors.Errorf("invalid exclude pattern %q", pat)
		}
	}

	var (
		files []string
		stack []string
	)
	push := func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, "list %s", dir)
		}
		for _, e := range slices.Backward(entries) {
			if strings.HasPrefix(e.Name(), ".") {
				continue
			}
			stack = append(stack, filepath.Join(dir, e.Name()))
		}
		return nil
	}

	if err := push(root); err != nil {
		return nil, err
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if excluded(root, p, opts.Exclude) {
			continue
		}
		info, err := os.Lstat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		switch {
		case info.IsDir():
			if err := push(p); err != nil {
				return nil, err
			}
		case info.Mode().IsRegular() && strings.HasSuffix(info.Name(), opts.Ext):
			files = append(files, p)
		}
	}

	return files, nil
}

func excluded(root, p string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, path.Base(rel)); ok {
			return true
		}
	}
	return false
}
