package http

import (
	"embed"
	"html/template"
	"net/http"
	"path"
	"time"

	"github.com/foolin/goview"
)

//go:embed templates
var templates embed.FS

// Views renders the public share pages from the embedded templates.
type Views struct {
	engine *goview.ViewEngine
}

func NewViews() *Views {
	engine := goview.New(goview.Config{
		Root:         "templates",
		Extension:    ".html",
		Master:       "layouts/master",
		DisableCache: false,
		Funcs: template.FuncMap{
			"formatTime": func(t time.Time) string {
				return t.UTC().Format("Jan 2, 2006 15:04 MST")
			},
		},
	})
	engine.SetFileHandler(embeddedFH)
	return &Views{engine: engine}
}

func embeddedFH(config goview.Config, tmpl string) (string, error) {
	bytes, err := templates.ReadFile(path.Join(config.Root, tmpl+config.Extension))
	return string(bytes), err
}

func (v *Views) Render(w http.ResponseWriter, statusCode int, name string, data goview.M) {
	w.Header().Set("Cache-Control", "no-store")
	if err := v.engine.Render(w, statusCode, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
