package pages

import (
	"html/template"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"cond": func(cond interface{}, a, b string) string {
			if cond == nil {
				return b
			}

			if boolean, ok := cond.(bool); boolean && ok {
				return a
			}

			return b
		},
		"timeFmt": humanize.Time,
		"dateFmt": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"isoFmt": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"length": func(slice interface{}) int {
			v := reflect.ValueOf(slice)
			if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
				return v.Len()
			}
			return 0
		},
		"markdown": func(text string) template.HTML {
			return template.HTML(renderMarkdown(text))
		},
	}
}
