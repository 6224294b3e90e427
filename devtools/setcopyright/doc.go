// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Setcopyright replaces the copyright header of every source file in a tree.

It walks the root directory (by default, the nearest directory containing
go.mod), skipping files and directories whose names start with a dot, and
rewrites each file whose name ends with the extension given by -ext.

The header of a file is the run of lines starting with // at its very top,
plus one empty line right after it, if any. Setcopyright removes the header
and puts a notice followed by an empty line in its place. Running it again
in the same year doesn't change anything.

The notice is rendered from a template once per run. The built-in template
can be replaced with -template. Templates can refer to these placeholders:

  - {year}: the current year.
  - any key set with -set key=value.

Use {{ and }} for literal braces. Every line of the rendered template is
prefixed with "// ".

This tool overwrites files without making backups. Run it on a tree under
version control and review the result.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/copyright/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
