package dashboard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cj123/sessions"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-http-utils/etag"
	"github.com/google/uuid"
)

func Router(
	fs http.FileSystem,
	summaryHandler *SummaryHandler,
	comparisonHandler *ComparisonHandler,
	pinnedHandler *PinnedComparisonsHandler,
	datasetHandler *DatasetHandler,
	methodologyHandler *MethodologyHandler,
	healthCheck *HealthCheck,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(panicHandler)

	r.Handle("/metrics", prometheusMonitoringHandler())
	r.Handle("/healthcheck.json", healthCheck)

	if Debug {
		r.Mount("/debug/", middleware.Profiler())
	}

	// pages
	r.Get("/", summaryHandler.view)
	r.Get("/compare", comparisonHandler.view)
	r.Get("/pinned", pinnedHandler.list)
	r.Post("/pinned", pinnedHandler.pin)
	r.Get("/pinned/{id}/delete", pinnedHandler.delete)
	r.Get("/about", methodologyHandler.view)

	// downloads
	r.Get("/export/results.csv", summaryHandler.exportCSV)

	// api
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(etagMiddleware)

			r.Get("/summary", summaryHandler.api)
			r.Get("/compare", comparisonHandler.api)
			r.Get("/trend", comparisonHandler.trend)
			r.Get("/dataset", datasetHandler.info)
		})

		r.Get("/dataset/events", datasetHandler.events)
	})

	if fs != nil {
		FileServer(r, "/static", fs)
	}

	return prometheusMonitoringWrapper(r)
}

func etagMiddleware(next http.Handler) http.Handler {
	return etag.Handler(next, false)
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	fs := http.StripPrefix(path, http.FileServer(root))

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, fs.ServeHTTP)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func randomKey() string {
	return strings.Replace(uuid.New().String()+uuid.New().String(), "-", "", -1)
}

var sessionsStore sessions.Store = sessions.NewCookieStore([]byte(randomKey()))

func getSession(r *http.Request) *sessions.Session {
	session, _ := sessionsStore.Get(r, "messages")

	return session
}

func getErrSession(r *http.Request) *sessions.Session {
	session, _ := sessionsStore.Get(r, "errors")

	return session
}

// Helper function to get message session and add a flash
func AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	session := getSession(r)

	session.AddFlash(message)

	// gorilla sessions is dumb and errors weirdly
	_ = session.Save(r, w)
}

func AddErrorFlash(w http.ResponseWriter, r *http.Request, message string) {
	session := getErrSession(r)

	session.AddFlash(message)

	// gorilla sessions is dumb and errors weirdly
	_ = session.Save(r, w)
}
