// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"go.astrophena.name/copyright/cli"
	"go.astrophena.name/copyright/internal/devtools"
	"go.astrophena.name/copyright/logger"
	"go.astrophena.name/copyright/notice"
	"go.astrophena.name/copyright/rewrite"
)

//go:embed template.txt
var defaultTemplate string

func main() { cli.Main(newApp()) }

type app struct {
	root     string
	ext      string
	template string
	vars     notice.Context
	exclude  []string
	dry      bool

	now func() time.Time // time.Now if nil
}

func newApp() *app {
	return &app{vars: make(notice.Context)}
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.root, "root", "", "Rewrite files under `dir`. Defaults to the nearest directory containing go.mod.")
	fs.StringVar(&a.ext, "ext", ".go", "Rewrite files with names ending in `suffix`.")
	fs.StringVar(&a.template, "template", "", "Read the notice template from `file` instead of using the built-in one.")
	fs.Var(a.vars, "set", "Set template placeholder `key=value`. Can be repeated.")
	fs.Func("exclude", "Skip files and directories matching doublestar `glob`. Can be repeated.", func(s string) error {
		a.exclude = append(a.exclude, s)
		return nil
	})
	fs.BoolVar(&a.dry, "dry", false, "Print the files that would be rewritten, without making changes.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}
	if a.ext == "" {
		return fmt.Errorf("%w: -ext must not be empty", cli.ErrInvalidArgs)
	}

	tmpl := defaultTemplate
	if a.template != "" {
		b, err := os.ReadFile(a.template)
		if err != nil {
			return errors.Wrap(err, "reading template")
		}
		tmpl = string(b)
	}

	now := time.Now
	if a.now != nil {
		now = a.now
	}
	vars := notice.NewContext(now())
	for k, v := range a.vars {
		vars[k] = v
	}
	n, err := notice.Render(tmpl, vars)
	if err != nil {
		return err
	}

	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if root, err = devtools.FindRoot(wd); err != nil {
			return err
		}
	}

	stats, err := rewrite.Tree(ctx, root, rewrite.Options{
		FilesOptions: rewrite.FilesOptions{
			Ext:     a.ext,
			Exclude: a.exclude,
		},
		Notice: n,
		Dry:    a.dry,
	})
	if err != nil {
		return err
	}
	logger.Debug(ctx, "done",
		slog.String("root", root),
		slog.Int("matched", stats.Matched),
		slog.Int("written", stats.Written),
	)
	return nil
}
