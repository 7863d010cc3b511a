package dashboard

import (
	"html/template"
	"net/http"

	"github.com/JustaPenguin/race-results-dashboard/internal/methodology"
	"github.com/sirupsen/logrus"
)

type MethodologyHandler struct {
	*BaseHandler
}

func NewMethodologyHandler(baseHandler *BaseHandler) *MethodologyHandler {
	return &MethodologyHandler{
		BaseHandler: baseHandler,
	}
}

type methodologyTemplateVars struct {
	BaseTemplateVars

	Methodology template.HTML
	LastLoad    *DatasetInfo
}

// view explains how the dashboard's metrics are calculated.
func (mh *MethodologyHandler) view(w http.ResponseWriter, r *http.Request) {
	lastLoad, err := mh.datasets.LastLoadInfo()

	if err != nil && err != ErrValueNotSet {
		logrus.WithError(err).Warn("couldn't read last dataset load")
	}

	mh.viewRenderer.MustLoadTemplate(w, r, "about.html", &methodologyTemplateVars{
		BaseTemplateVars: BaseTemplateVars{
			ActivePage: "about",
		},
		Methodology: methodology.Load(),
		LastLoad:    lastLoad,
	})
}
