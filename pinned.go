package dashboard

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// A PinnedComparison is a Comparison the user has saved to come back to. Only the
// names are stored, the Comparison itself is calculated against the current dataset.
type PinnedComparison struct {
	ID     uuid.UUID  `json:"id"`
	Kind   EntityKind `json:"kind"`
	First  string     `json:"first"`
	Second string     `json:"second"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Deleted time.Time `json:"deleted"`
}

func NewPinnedComparison(kind EntityKind, first, second string) *PinnedComparison {
	return &PinnedComparison{
		ID:      uuid.New(),
		Kind:    kind,
		First:   first,
		Second:  second,
		Created: time.Now(),
	}
}

func (p *PinnedComparison) Name() string {
	return fmt.Sprintf("%s vs %s", p.First, p.Second)
}

func (p *PinnedComparison) URL() string {
	return compareURL(p.Kind, p.First, p.Second)
}

// findPinnedComparison returns the pinned comparison of first and second, or nil if
// they haven't been pinned.
func findPinnedComparison(store Store, kind EntityKind, first, second string) (*PinnedComparison, error) {
	pinned, err := store.ListPinnedComparisons()

	if err != nil {
		return nil, err
	}

	for _, p := range pinned {
		if p.Kind == kind && p.First == first && p.Second == second {
			return p, nil
		}
	}

	return nil, nil
}

// PinnedComparisonView is a PinnedComparison calculated against the current dataset.
type PinnedComparisonView struct {
	*PinnedComparison

	Comparison *Comparison
}

type PinnedComparisonsHandler struct {
	*BaseHandler

	store Store
}

func NewPinnedComparisonsHandler(baseHandler *BaseHandler, store Store) *PinnedComparisonsHandler {
	return &PinnedComparisonsHandler{
		BaseHandler: baseHandler,
		store:       store,
	}
}

type pinnedComparisonsTemplateVars struct {
	BaseTemplateVars

	Pinned []PinnedComparisonView
}

func (ph *PinnedComparisonsHandler) list(w http.ResponseWriter, r *http.Request) {
	records, ok := ph.records(w)

	if !ok {
		return
	}

	pinned, err := ph.store.ListPinnedComparisons()

	if err != nil {
		logrus.WithError(err).Error("couldn't list pinned comparisons")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views := make([]PinnedComparisonView, 0, len(pinned))

	for _, p := range pinned {
		views = append(views, PinnedComparisonView{
			PinnedComparison: p,
			Comparison:       Compare(records, p.Kind, p.First, p.Second),
		})
	}

	viewsRendered.WithLabelValues("pinned").Inc()

	ph.viewRenderer.MustLoadTemplate(w, r, "pinned.html", &pinnedComparisonsTemplateVars{
		BaseTemplateVars: BaseTemplateVars{
			ActivePage: "pinned",
		},
		Pinned: views,
	})
}

func (ph *PinnedComparisonsHandler) pin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logrus.WithError(err).Error("couldn't parse pin form")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	kind, err := ParseEntityKind(r.FormValue("kind"))

	if err != nil || kind == EntityNationality {
		AddErrorFlash(w, r, "Only drivers and constructors can be compared.")
		http.Redirect(w, r, "/compare", http.StatusFound)
		return
	}

	first, second := strings.TrimSpace(r.FormValue("first")), strings.TrimSpace(r.FormValue("second"))

	if first == "" || second == "" {
		AddErrorFlash(w, r, "Pick two "+strings.ToLower(kind.Title())+"s to pin a comparison.")
		http.Redirect(w, r, "/compare", http.StatusFound)
		return
	}

	existing, err := findPinnedComparison(ph.store, kind, first, second)

	if err != nil {
		logrus.WithError(err).Error("couldn't list pinned comparisons")
		AddErrorFlash(w, r, "Sorry, we couldn't pin that comparison.")
		http.Redirect(w, r, compareURL(kind, first, second), http.StatusFound)
		return
	}

	if existing != nil {
		AddFlash(w, r, fmt.Sprintf("%s is already pinned.", existing.Name()))
		http.Redirect(w, r, "/pinned", http.StatusFound)
		return
	}

	p := NewPinnedComparison(kind, first, second)

	if err := ph.store.UpsertPinnedComparison(p); err != nil {
		logrus.WithError(err).Error("couldn't save pinned comparison")
		AddErrorFlash(w, r, "Sorry, we couldn't pin that comparison.")
		http.Redirect(w, r, p.URL(), http.StatusFound)
		return
	}

	AddFlash(w, r, fmt.Sprintf("Pinned %s.", p.Name()))
	http.Redirect(w, r, "/pinned", http.StatusFound)
}

func (ph *PinnedComparisonsHandler) delete(w http.ResponseWriter, r *http.Request) {
	err := ph.store.DeletePinnedComparison(chi.URLParam(r, "id"))

	switch {
	case err == ErrPinnedComparisonNotFound:
		http.NotFound(w, r)
		return
	case err != nil:
		logrus.WithError(err).Error("couldn't delete pinned comparison")
		AddErrorFlash(w, r, "Sorry, we couldn't remove that comparison.")
	default:
		AddFlash(w, r, "Comparison unpinned.")
	}

	http.Redirect(w, r, "/pinned", http.StatusFound)
}
