// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package rewrite

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.astrophena.name/copyright/logger"
	"go.astrophena.name/copyright/testutil"
)

var update = flag.Bool("update", false, "update golden files in testdata")

const testNotice = "// Copyright 2024 Example Corp"

func TestSplice(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"header with blank separator": {
			in:   "// old header\n// line 2\n\npackage x",
			want: "// Copyright 2024 Example Corp\n\npackage x",
		},
		"header without separator": {
			in:   "// old header\npackage x\n",
			want: "// Copyright 2024 Example Corp\n\npackage x\n",
		},
		"no header": {
			in:   "package y",
			want: "// Copyright 2024 Example Corp\n\npackage y",
		},
		"no header, first line blank": {
			in:   "\npackage y\n",
			want: "// Copyright 2024 Example Corp\n\npackage y\n",
		},
		"only one blank line absorbed": {
			in:   "// old\n\n\npackage x\n",
			want: "// Copyright 2024 Example Corp\n\n\npackage x\n",
		},
		"whitespace-only line is not blank": {
			in:   "// old\n  \npackage x\n",
			want: "// Copyright 2024 Example Corp\n\n  \npackage x\n",
		},
		"comment after code kept": {
			in:   "// old\n\npackage x\n\n// Foo does things.\nfunc Foo() {}\n",
			want: "// Copyright 2024 Example Corp\n\npackage x\n\n// Foo does things.\nfunc Foo() {}\n",
		},
		"block comment is not a header": {
			in:   "/* old */\npackage x\n",
			want: "// Copyright 2024 Example Corp\n\n/* old */\npackage x\n",
		},
		"comment lines only, trailing newline": {
			in:   "// a\n// b\n",
			want: "// Copyright 2024 Example Corp\n\n",
		},
		"comment lines only, no trailing newline": {
			in:   "// a\n// b",
			want: "// Copyright 2024 Example Corp\n\n",
		},
		"empty file": {
			in:   "",
			want: "// Copyright 2024 Example Corp\n\n",
		},
		"crlf": {
			in:   "// old\r\n\r\npackage x\r\n",
			want: "// Copyright 2024 Example Corp\n\npackage x\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Splice([]byte(tc.in), testNotice)
			testutil.AssertText(t, string(got), tc.want)

			again := Splice(got, testNotice)
			testutil.AssertText(t, string(again), string(got))
		})
	}
}

func TestSpliceNewYear(t *testing.T) {
	in := "// Copyright 2024 Example Corp\n\npackage x\n"
	got := Splice([]byte(in), "// Copyright 2025 Example Corp")
	testutil.AssertText(t, string(got), "// Copyright 2025 Example Corp\n\npackage x\n")
}

func TestSpliceGolden(t *testing.T) {
	const n = "// © 2024 Example Corp. All rights reserved.\n// Use of this source code is governed by the ISC\n// license that can be found in the LICENSE.md file."
	testutil.RunGolden(t, filepath.Join("testdata", "*.go.txt"), func(t *testing.T, match string) []byte {
		content, err := os.ReadFile(match)
		if err != nil {
			t.Fatal(err)
		}
		return Splice(content, n)
	}, *update)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.go")
	if err := os.WriteFile(path, []byte("package x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("dry", func(t *testing.T) {
		changed, err := File(path, testNotice, true)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, changed, true)
		testutil.AssertText(t, readFile(t, path), "package x\n")
	})

	t.Run("write", func(t *testing.T) {
		changed, err := File(path, testNotice, false)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, changed, true)
		testutil.AssertText(t, readFile(t, path), testNotice+"\n\npackage x\n")

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if runtime.GOOS != "windows" {
			testutil.AssertEqual(t, info.Mode().Perm(), fs.FileMode(0o600))
		}
	})

	t.Run("already has notice", func(t *testing.T) {
		changed, err := File(path, testNotice, false)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, changed, false)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := File(filepath.Join(dir, "missing.go"), testNotice, false)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("want fs.ErrNotExist, got %v", err)
		}
	})
}

const tree = `
-- a.go --
package a
-- b.txt --
// not a Go file
-- .hidden.go --
// hidden
-- .git/config.go --
package git
-- pkg/x.go --
// old header
// line 2

package x
-- pkg/sub/y.go --
package y
-- pkg/z.go --
// Copyright 2024 Example Corp

package z
-- vendor/v.go --
package v
-- x.GO --
package upper
`

func TestFiles(t *testing.T) {
	dir := testutil.ParseTxtar(t, tree)

	rel := func(t *testing.T, paths []string) []string {
		t.Helper()
		var out []string
		for _, p := range paths {
			r, err := filepath.Rel(dir, p)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, filepath.ToSlash(r))
		}
		return out
	}

	cases := map[string]struct {
		opts FilesOptions
		want []string
	}{
		"go files": {
			opts: FilesOptions{Ext: ".go"},
			want: []string{"a.go", "pkg/sub/y.go", "pkg/x.go", "pkg/z.go", "vendor/v.go"},
		},
		"other extension": {
			opts: FilesOptions{Ext: ".txt"},
			want: []string{"b.txt"},
		},
		"case-sensitive extension": {
			opts: FilesOptions{Ext: ".GO"},
			want: []string{"x.GO"},
		},
		"exclude directory": {
			opts: FilesOptions{Ext: ".go", Exclude: []string{"vendor"}},
			want: []string{"a.go", "pkg/sub/y.go", "pkg/x.go", "pkg/z.go"},
		},
		"exclude glob": {
			opts: FilesOptions{Ext: ".go", Exclude: []string{"pkg/**/y.go", "a.go"}},
			want: []string{"pkg/x.go", "pkg/z.go", "vendor/v.go"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Files(dir, tc.opts)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, rel(t, got), tc.want)
		})
	}
}

func TestFilesDepthFirst(t *testing.T) {
	dir := testutil.ParseTxtar(t, `
-- a/1.go --
-- b.go --
-- c/d/2.go --
-- c/3.go --
-- e.go --
`)
	got, err := Files(dir, FilesOptions{Ext: ".go"})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range got {
		names = append(names, filepath.Base(p))
	}
	testutil.AssertEqual(t, names, []string{"1.go", "b.go", "2.go", "3.go", "e.go"})
}

func TestFilesErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := Files(filepath.Join(t.TempDir(), "missing"), FilesOptions{Ext: ".go"})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("want fs.ErrNotExist, got %v", err)
		}
	})
	t.Run("bad pattern", func(t *testing.T) {
		_, err := Files(t.TempDir(), FilesOptions{Ext: ".go", Exclude: []string{"[a-"}})
		if err == nil || !strings.Contains(err.Error(), "invalid exclude pattern") {
			t.Fatalf("want invalid pattern error, got %v", err)
		}
	})
}

func TestTree(t *testing.T) {
	dir := testutil.ParseTxtar(t, tree)

	var logs bytes.Buffer
	l := logger.New(&logs, logger.Options{NoColor: true})
	l.Level.Set(slog.LevelDebug)
	ctx := logger.Put(context.Background(), l)

	stats, err := Tree(ctx, dir, Options{
		FilesOptions: FilesOptions{Ext: ".go", Exclude: []string{"vendor"}},
		Notice:       testNotice,
	})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, stats, Stats{Matched: 4, Written: 3})

	want := `-- .git/config.go --
package git
-- .hidden.go --
// hidden
-- a.go --
// Copyright 2024 Example Corp

package a
-- b.txt --
// not a Go file
-- pkg/sub/y.go --
// Copyright 2024 Example Corp

package y
-- pkg/x.go --
// Copyright 2024 Example Corp

package x
-- pkg/z.go --
// Copyright 2024 Example Corp

package z
-- vendor/v.go --
package v
-- x.GO --
package upper
`
	testutil.AssertText(t, string(testutil.BuildTxtar(t, dir)), want)

	out := logs.String()
	for _, p := range []string{"a.go", "pkg/x.go", "pkg/sub/y.go"} {
		if !strings.Contains(out, "wrote path="+filepath.Join(dir, filepath.FromSlash(p))) {
			t.Errorf("log must mention %s, got:\n%s", p, out)
		}
	}
	if !strings.Contains(out, "unchanged path="+filepath.Join(dir, "pkg", "z.go")) {
		t.Errorf("log must mention unchanged pkg/z.go, got:\n%s", out)
	}

	t.Run("rerun is a no-op", func(t *testing.T) {
		before := testutil.BuildTxtar(t, dir)
		stats, err := Tree(ctx, dir, Options{
			FilesOptions: FilesOptions{Ext: ".go", Exclude: []string{"vendor"}},
			Notice:       testNotice,
		})
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, stats, Stats{Matched: 4, Written: 0})
		testutil.AssertText(t, string(testutil.BuildTxtar(t, dir)), string(before))
	})
}

func TestTreeDry(t *testing.T) {
	dir := testutil.ParseTxtar(t, tree)
	before := testutil.BuildTxtar(t, dir)

	stats, err := Tree(context.Background(), dir, Options{
		FilesOptions: FilesOptions{Ext: ".go"},
		Notice:       testNotice,
		Dry:          true,
	})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, stats, Stats{Matched: 5, Written: 4})
	testutil.AssertText(t, string(testutil.BuildTxtar(t, dir)), string(before))
}

func TestTreeCanceled(t *testing.T) {
	dir := testutil.ParseTxtar(t, tree)
	before := testutil.BuildTxtar(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Tree(ctx, dir, Options{FilesOptions: FilesOptions{Ext: ".go"}, Notice: testNotice})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	testutil.AssertText(t, string(testutil.BuildTxtar(t, dir)), string(before))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
