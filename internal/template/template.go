// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/geoservices/internal/config"
)

type Templates struct {
	Text *template.Template
}

func New(conf *config.Config) (*Templates, error) {
	tpls := new(Templates)
	tpl, err := template.New("text").Funcs(templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return tpls, fmt.Errorf("failed to parse text template: %w", err)
	}
	tpls.Text = tpl

	return tpls, nil
}

// Render executes the text template with data.
func (t *Templates) Render(data any) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := t.Text.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render text template: %w", err)
	}
	return buf.String(), nil
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":  timeFormat,
		"floatFormat": floatFormat,
		"pad":         pad,
		"lc":          strings.ToLower,
		"uc":          strings.ToUpper,
	}
}

func timeFormat(val time.Time, fmt string) string {
	if val.IsZero() {
		return ""
	}
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

// pad fills val with spaces up to the given display width. A negative width pads on the left.
func pad(width int, val string) string {
	if width < 0 {
		return runewidth.FillLeft(val, -width)
	}
	return runewidth.FillRight(val, width)
}
