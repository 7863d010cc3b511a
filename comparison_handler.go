package dashboard

import (
	"net/http"

	"github.com/JustaPenguin/race-results-dashboard/pkg/investment"
	"github.com/sirupsen/logrus"
)

type ComparisonHandler struct {
	*BaseHandler

	store Store
}

func NewComparisonHandler(baseHandler *BaseHandler, store Store) *ComparisonHandler {
	return &ComparisonHandler{
		BaseHandler: baseHandler,
		store:       store,
	}
}

// ComparisonRequest is a Comparison as asked for in a query string.
type ComparisonRequest struct {
	Kind          EntityKind
	First, Second string
}

// parseComparisonRequest reads kind, first and second from r. A missing or unknown kind
// compares drivers. Missing names default to the first two names of that kind.
func parseComparisonRequest(r *http.Request, records []ResultRecord) (ComparisonRequest, error) {
	q := r.URL.Query()

	req := ComparisonRequest{
		Kind:   EntityDriver,
		First:  q.Get("first"),
		Second: q.Get("second"),
	}

	if kind := q.Get("kind"); kind != "" {
		k, err := ParseEntityKind(kind)

		if err != nil {
			return req, err
		}

		if k == EntityNationality {
			return req, ErrUnknownEntityKind(kind)
		}

		req.Kind = k
	}

	entities := Entities(records, req.Kind)

	if req.First == "" && len(entities) > 0 {
		req.First = entities[0]
	}

	if req.Second == "" {
		for _, entity := range entities {
			if entity != req.First {
				req.Second = entity
				break
			}
		}
	}

	return req, nil
}

type comparisonTemplateVars struct {
	BaseTemplateVars

	Kind       EntityKind
	Options    []string
	Comparison *Comparison
	IsPinned   bool
}

func (ch *ComparisonHandler) isPinned(req ComparisonRequest) bool {
	p, err := findPinnedComparison(ch.store, req.Kind, req.First, req.Second)

	if err != nil {
		logrus.WithError(err).Warn("couldn't list pinned comparisons")
		return false
	}

	return p != nil
}

// view renders the comparison page.
func (ch *ComparisonHandler) view(w http.ResponseWriter, r *http.Request) {
	records, ok := ch.records(w)

	if !ok {
		return
	}

	req, err := parseComparisonRequest(r, records)

	if err != nil {
		AddErrorFlash(w, r, "Only drivers and constructors can be compared.")
		http.Redirect(w, r, "/compare", http.StatusFound)
		return
	}

	vars := &comparisonTemplateVars{
		BaseTemplateVars: BaseTemplateVars{
			ActivePage: "compare",
		},
		Kind:    req.Kind,
		Options: Entities(records, req.Kind),
	}

	if req.First != "" && req.Second != "" {
		vars.Comparison = Compare(records, req.Kind, req.First, req.Second)
		vars.IsPinned = ch.isPinned(req)
	}

	viewsRendered.WithLabelValues("compare").Inc()

	ch.viewRenderer.MustLoadTemplate(w, r, "compare.html", vars)
}

type comparisonResponse struct {
	*Comparison

	Recommendation string `json:"recommendation"`
}

func (ch *ComparisonHandler) api(w http.ResponseWriter, r *http.Request) {
	records, ok := ch.records(w)

	if !ok {
		return
	}

	req, err := parseComparisonRequest(r, records)

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.First == "" || req.Second == "" {
		http.Error(w, "two entities are needed for a comparison", http.StatusBadRequest)
		return
	}

	comparison := Compare(records, req.Kind, req.First, req.Second)

	viewsRendered.WithLabelValues("compare_api").Inc()

	writeJSON(w, comparisonResponse{
		Comparison:     comparison,
		Recommendation: comparison.Recommendation(),
	})
}

type trendResponse struct {
	Kind    EntityKind         `json:"kind"`
	Trend   Trend              `json:"trend"`
	Metrics investment.Metrics `json:"metrics"`
}

// trend returns a single entity's points by season, and its metrics.
func (ch *ComparisonHandler) trend(w http.ResponseWriter, r *http.Request) {
	records, ok := ch.records(w)

	if !ok {
		return
	}

	kind, err := ParseEntityKind(r.URL.Query().Get("kind"))

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entity := r.URL.Query().Get("entity")

	if entity == "" {
		http.Error(w, "entity is required", http.StatusBadRequest)
		return
	}

	trend := TrendFor(ParseFilter(r.URL.Query()).Apply(records), kind, entity)

	writeJSON(w, trendResponse{
		Kind:    kind,
		Trend:   trend,
		Metrics: trend.Metrics(),
	})
}
