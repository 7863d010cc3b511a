package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-zglob"
	"github.com/sirupsen/logrus"
)

// BuildVersion is the time the dashboard was built at
var BuildVersion = "dev"

type TemplateLoader interface {
	Init() error
	Templates(funcs template.FuncMap) (map[string]*template.Template, error)
}

func NewFilesystemTemplateLoader(dir string) TemplateLoader {
	return &filesystemTemplateLoader{
		dir: dir,
	}
}

type filesystemTemplateLoader struct {
	dir string

	pages, partials []string
}

func (fs *filesystemTemplateLoader) Init() error {
	var err error

	fs.pages, err = zglob.Glob(filepath.Join(fs.dir, "pages", "**", "*.html"))

	if err != nil {
		return err
	}

	fs.partials, err = zglob.Glob(filepath.Join(fs.dir, "partials", "**", "*.html"))

	if err != nil {
		return err
	}

	return nil
}

func (fs *filesystemTemplateLoader) Templates(funcs template.FuncMap) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	for _, page := range fs.pages {
		var templateList []string
		templateList = append(templateList, filepath.Join(fs.dir, "layout", "base.html"))
		templateList = append(templateList, fs.partials...)
		templateList = append(templateList, page)

		t, err := template.New(page).Funcs(funcs).ParseFiles(templateList...)

		if err != nil {
			return nil, err
		}

		templates[strings.TrimPrefix(filepath.ToSlash(page), filepath.ToSlash(fs.dir)+"/pages/")] = t
	}

	return templates, nil
}

// Renderer is the template engine.
type Renderer struct {
	loader   TemplateLoader
	datasets *DatasetManager

	templates map[string]*template.Template

	reload bool
	mutex  sync.Mutex
}

func NewRenderer(loader TemplateLoader, datasets *DatasetManager, reload bool) (*Renderer, error) {
	tr := &Renderer{
		loader:   loader,
		datasets: datasets,

		templates: make(map[string]*template.Template),
		reload:    reload,
	}

	err := tr.init()

	if err != nil {
		return nil, err
	}

	return tr, nil
}

// init loads template files into memory.
func (tr *Renderer) init() error {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	err := tr.loader.Init()

	if err != nil {
		return err
	}

	funcs := sprig.FuncMap()
	funcs["jsonEncode"] = jsonEncode
	funcs["points"] = formatPoints
	funcs["percent"] = formatPercent
	funcs["ratio"] = formatRatio
	funcs["count"] = formatCount
	funcs["timeAgo"] = humanize.Time
	funcs["filterURL"] = filterURL
	funcs["compareURL"] = compareURL
	funcs["Config"] = func() *Configuration { return config }
	funcs["Version"] = func() string { return BuildVersion }

	tr.templates, err = tr.loader.Templates(funcs)

	return err
}

func jsonEncode(v interface{}) template.JS {
	buf := new(bytes.Buffer)

	_ = json.NewEncoder(buf).Encode(v)

	return template.JS(buf.String())
}

func formatPoints(points float64) string {
	return humanize.Commaf(points)
}

func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f)
}

func formatRatio(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatCount(i interface{}) string {
	switch n := i.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	default:
		return fmt.Sprint(i)
	}
}

func filterURL(path string, f Filter) string {
	q := f.Query()

	if len(q) == 0 {
		return path
	}

	return path + "?" + q.Encode()
}

func compareURL(kind EntityKind, first, second string) string {
	q := make(url.Values)
	q.Set("kind", kind.String())
	q.Set("first", first)
	q.Set("second", second)

	return "/compare?" + q.Encode()
}

type TemplateVars interface {
	Get() *BaseTemplateVars
}

type BaseTemplateVars struct {
	Messages      []interface{}
	Errors        []interface{}
	Title         string
	ActivePage    string
	Dataset       *DatasetInfo
	Request       *http.Request
	Debug         bool
	WideContainer bool
	Now           time.Time
}

func (b *BaseTemplateVars) Get() *BaseTemplateVars {
	return b
}

func (tr *Renderer) addData(w http.ResponseWriter, r *http.Request, vars TemplateVars) {
	session := getSession(r)

	data := vars.Get()

	if flashes := session.Flashes(); len(flashes) > 0 {
		data.Messages = flashes
	}

	errSession := getErrSession(r)

	if flashes := errSession.Flashes(); len(flashes) > 0 {
		data.Errors = flashes
	}

	_ = session.Save(r, w)
	_ = errSession.Save(r, w)

	if dataset, err := tr.datasets.Current(); err == nil {
		info := dataset.Info()
		data.Dataset = &info
	}

	if data.Title == "" {
		data.Title = config.Dashboard.Title
	}

	data.Request = r
	data.Debug = Debug
	data.Now = time.Now()
}

// LoadTemplate reads a template from templates and renders it with data to the given io.Writer
func (tr *Renderer) LoadTemplate(w http.ResponseWriter, r *http.Request, view string, vars TemplateVars) error {
	if tr.reload {
		// reload templates on every request if enabled, so
		// that we don't have to constantly restart the website
		err := tr.init()

		if err != nil {
			return err
		}
	}

	t, ok := tr.templates[filepath.ToSlash(view)]

	if !ok {
		return fmt.Errorf("unable to find template: %s", filepath.ToSlash(view))
	}

	if vars == nil {
		vars = &BaseTemplateVars{}
	}

	tr.addData(w, r, vars)

	return t.ExecuteTemplate(w, "base", vars)
}

// MustLoadTemplate asserts that a LoadTemplate call must succeed or be dealt with via the http.ResponseWriter
func (tr *Renderer) MustLoadTemplate(w http.ResponseWriter, r *http.Request, view string, vars TemplateVars) {
	err := tr.LoadTemplate(w, r, view, vars)

	if err != nil {
		if _, ok := err.(*net.OpError); !ok {
			// don't capture OpErrors, they're only closed connections
			captureError(err)
		}
		logrus.WithError(err).Errorf("Unable to load template: %s", view)
		http.Error(w, "unable to load template", http.StatusInternalServerError)
		return
	}
}
