package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type SummaryHandler struct {
	*BaseHandler

	opts SummaryOptions
}

func NewSummaryHandler(baseHandler *BaseHandler, opts SummaryOptions) *SummaryHandler {
	return &SummaryHandler{
		BaseHandler: baseHandler,
		opts:        opts,
	}
}

type summaryTemplateVars struct {
	BaseTemplateVars

	Summary *Summary
}

// view renders the summary dashboard for the filter given in the query string.
func (sh *SummaryHandler) view(w http.ResponseWriter, r *http.Request) {
	records, ok := sh.records(w)

	if !ok {
		return
	}

	summary := BuildSummary(records, ParseFilter(r.URL.Query()), sh.opts)

	viewsRendered.WithLabelValues("summary").Inc()

	sh.viewRenderer.MustLoadTemplate(w, r, "summary.html", &summaryTemplateVars{
		BaseTemplateVars: BaseTemplateVars{
			ActivePage:    "summary",
			WideContainer: true,
		},
		Summary: summary,
	})
}

func (sh *SummaryHandler) api(w http.ResponseWriter, r *http.Request) {
	records, ok := sh.records(w)

	if !ok {
		return
	}

	viewsRendered.WithLabelValues("summary_api").Inc()

	writeJSON(w, BuildSummary(records, ParseFilter(r.URL.Query()), sh.opts))
}

// exportCSV downloads the filtered records.
func (sh *SummaryHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	records, ok := sh.records(w)

	if !ok {
		return
	}

	filtered := ParseFilter(r.URL.Query()).Apply(records)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="results_%s.csv"`, time.Now().Format("2006-01-02")))

	if err := WriteResults(w, filtered); err != nil {
		logrus.WithError(err).Error("couldn't write results csv")
	}
}
