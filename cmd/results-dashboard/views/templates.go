package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed layout pages partials static
var files embed.FS

// TemplateLoader loads the dashboard templates built into the binary.
type TemplateLoader struct {
	pages, partials []string
}

func (t *TemplateLoader) Init() error {
	t.pages, t.partials = nil, nil

	return fs.WalkDir(files, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || path.Ext(name) != ".html" {
			return nil
		}

		if strings.HasPrefix(name, "pages/") {
			t.pages = append(t.pages, name)
		} else if strings.HasPrefix(name, "partials/") {
			t.partials = append(t.partials, name)
		}

		return nil
	})
}

func (t *TemplateLoader) fileContents(name string) (string, error) {
	data, err := files.ReadFile(name)

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (t *TemplateLoader) Templates(funcs template.FuncMap) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	templateData, err := t.fileContents("layout/base.html")

	if err != nil {
		return nil, err
	}

	for _, partial := range t.partials {
		contents, err := t.fileContents(partial)

		if err != nil {
			return nil, err
		}

		templateData += contents
	}

	for _, page := range t.pages {
		pageData := templateData

		pageText, err := t.fileContents(page)

		if err != nil {
			return nil, err
		}

		pageData += pageText

		tmpl, err := template.New(page).Funcs(funcs).Parse(pageData)

		if err != nil {
			return nil, err
		}

		templates[strings.TrimPrefix(page, "pages/")] = tmpl
	}

	return templates, nil
}

// Static serves the stylesheets and scripts under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")

	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}
