// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package rewrite replaces leading comment blocks of source files with a
// rendered notice.
//
// A header is the run of lines starting with [notice.CommentPrefix] at the
// very top of a file, plus at most one empty line right after it. Rewriting
// a file drops its header and puts the notice and one empty line in its
// place. Running the rewrite again with the same notice doesn't change the
// file.
package rewrite

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"go.astrophena.name/copyright/logger"
	"go.astrophena.name/copyright/notice"
)

// Splice returns content with its header replaced by n.
//
// CRLF line endings are converted to LF. A trailing newline in content is
// kept. When content consists only of comment lines, all of it is treated
// as the header.
func Splice(content []byte, n string) []byte {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) && strings.HasPrefix(lines[i], notice.CommentPrefix) {
		i++
	}
	if i < len(lines) && lines[i] == "" {
		i++
	}

	var buf bytes.Buffer
	buf.WriteString(n)
	buf.WriteString("\n\n")
	buf.WriteString(strings.Join(lines[i:], "\n"))
	return buf.Bytes()
}

// File replaces the header of the file at path with n.
//
// It reports whether the content changed. Files that already carry n are
// left untouched on disk. If dry is true, nothing is written.
func File(path, n string, dry bool) (changed bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "read %s", path)
	}

	out := Splice(content, n)
	if bytes.Equal(out, content) {
		return false, nil
	}
	if dry {
		return true, nil
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, "write %s", path)
	}
	return true, nil
}

// Options configure [Tree].
type Options struct {
	FilesOptions

	// Notice is the rendered notice put at the top of every file.
	Notice string
	// Dry makes Tree report files that would change without writing them.
	Dry bool
}

// Stats summarizes a [Tree] run.
type Stats struct {
	Matched int // files with a matching name
	Written int // files whose content changed (or would change on a dry run)
}

// Tree rewrites the header of every file under root selected by
// opts.FilesOptions.
//
// Files are processed one at a time in walk order. The first error stops
// the run; files rewritten before it stay rewritten.
func Tree(ctx context.Context, root string, opts Options) (Stats, error) {
	var stats Stats

	paths, err := Files(root, opts.FilesOptions)
	if err != nil {
		return stats, err
	}
	stats.Matched = len(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		changed, err := File(path, opts.Notice, opts.Dry)
		if err != nil {
			return stats, err
		}
		if !changed {
			logger.Debug(ctx, "unchanged", slog.String("path", path))
			continue
		}
		stats.Written++
		if opts.Dry {
			logger.Info(ctx, "would write", slog.String("path", path))
		} else {
			logger.Info(ctx, "wrote", slog.String("path", path))
		}
	}

	return stats, nil
}
