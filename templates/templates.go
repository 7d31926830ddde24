package templates

import (
	"embed"
	"fmt"
	"html/template"
	"path"
	"time"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"upload": func(bucket, name string) string {
		if name == "" {
			name = "default.jpg"
		}
		return path.Join("/uploads", bucket, name)
	},
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// Load parses every page. Pages are addressed by the name they define, e.g. "user/cart.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "html/*.html")
}
