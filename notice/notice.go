// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package notice renders copyright notices from templates.
//
// A template is plain text with {key} placeholders that are resolved
// against a [Context]. Literal braces are written as {{ and }}. The
// rendered notice has every line prefixed with [CommentPrefix] and a
// space, so it can be placed at the top of a source file as is.
package notice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CommentPrefix is the line comment marker used for rendered notices.
const CommentPrefix = "//"

// Context holds the values placeholders are resolved against.
type Context map[string]string

// NewContext returns a Context with the year key set to the year of now,
// in now's location.
func NewContext(now time.Time) Context {
	return Context{"year": strconv.Itoa(now.Year())}
}

// String implements [flag.Value].
func (c Context) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k + "=" + c[k])
	}
	return sb.String()
}

// Set parses a key=value pair and stores it, implementing [flag.Value].
func (c Context) Set(kv string) error {
	key, val, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", kv)
	}
	c[key] = val
	return nil
}

// TemplateError is returned by [Render] when a template can't be rendered.
type TemplateError struct {
	// Key is the placeholder name. It's empty when the template is
	// malformed rather than referring to an unknown key.
	Key string
	// Offset is the byte offset of the offending brace in the template.
	Offset int
	// Reason describes a malformed template.
	Reason string
}

func (e *TemplateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("notice: %s at offset %d", e.Reason, e.Offset)
	}
	return fmt.Sprintf("notice: no value for placeholder {%s} at offset %d", e.Key, e.Offset)
}

// Render substitutes placeholders in tmpl with values from ctx and formats
// the result as a block of line comments without a trailing newline.
//
// Leading and trailing whitespace of the substituted text is dropped.
func Render(tmpl string, ctx Context) (string, error) {
	text, err := substitute(tmpl, ctx)
	if err != nil {
		return "", err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = CommentPrefix + " " + line
	}
	return strings.Join(lines, "\n"), nil
}

func substitute(tmpl string, ctx Context) (string, error) {
	var sb strings.Builder
	sb.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && strings.HasPrefix(tmpl[i:], "{{"):
			sb.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(tmpl[i:], "}}"):
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", &TemplateError{Offset: i, Reason: "unterminated placeholder"}
			}
			key := tmpl[i+1 : i+1+end]
			if key == "" {
				return "", &TemplateError{Offset: i, Reason: "empty placeholder"}
			}
			val, ok := ctx[key]
			if !ok {
				return "", &TemplateError{Key: key, Offset: i}
			}
			sb.WriteString(val)
			i += end + 1
		case c == '}':
			return "", &TemplateError{Offset: i, Reason: "single '}' encountered"}
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}
