package dashboard

import (
	"net/http"
)

type Resolver struct {
	store           Store
	templateLoader  TemplateLoader
	reloadTemplates bool

	datasetManager   *DatasetManager
	datasetEventsHub *DatasetEventsHub
	viewRenderer     *Renderer

	// handlers
	baseHandler        *BaseHandler
	summaryHandler     *SummaryHandler
	comparisonHandler  *ComparisonHandler
	pinnedHandler      *PinnedComparisonsHandler
	datasetHandler     *DatasetHandler
	methodologyHandler *MethodologyHandler
	healthCheck        *HealthCheck
}

func NewResolver(templateLoader TemplateLoader, reloadTemplates bool, store Store, datasets *DatasetManager) (*Resolver, error) {
	r := &Resolver{
		templateLoader:  templateLoader,
		reloadTemplates: reloadTemplates,
		store:           store,
		datasetManager:  datasets,
	}

	if err := r.initViewRenderer(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Resolver) initViewRenderer() error {
	if r.viewRenderer != nil {
		return nil
	}

	viewRenderer, err := NewRenderer(r.templateLoader, r.ResolveDatasetManager(), r.reloadTemplates)

	if err != nil {
		return err
	}

	r.viewRenderer = viewRenderer

	return nil
}

func (r *Resolver) ResolveStore() Store {
	return r.store
}

func (r *Resolver) ResolveDatasetManager() *DatasetManager {
	return r.datasetManager
}

func (r *Resolver) resolveDatasetEventsHub() *DatasetEventsHub {
	if r.datasetEventsHub != nil {
		return r.datasetEventsHub
	}

	r.datasetEventsHub = NewDatasetEventsHub(r.ResolveDatasetManager())

	go panicCapture(r.datasetEventsHub.run)

	return r.datasetEventsHub
}

func (r *Resolver) resolveBaseHandler() *BaseHandler {
	if r.baseHandler != nil {
		return r.baseHandler
	}

	r.baseHandler = NewBaseHandler(r.viewRenderer, r.ResolveDatasetManager())

	return r.baseHandler
}

func (r *Resolver) resolveSummaryHandler() *SummaryHandler {
	if r.summaryHandler != nil {
		return r.summaryHandler
	}

	r.summaryHandler = NewSummaryHandler(r.resolveBaseHandler(), config.Dashboard.SummaryOptions())

	return r.summaryHandler
}

func (r *Resolver) resolveComparisonHandler() *ComparisonHandler {
	if r.comparisonHandler != nil {
		return r.comparisonHandler
	}

	r.comparisonHandler = NewComparisonHandler(r.resolveBaseHandler(), r.ResolveStore())

	return r.comparisonHandler
}

func (r *Resolver) resolvePinnedComparisonsHandler() *PinnedComparisonsHandler {
	if r.pinnedHandler != nil {
		return r.pinnedHandler
	}

	r.pinnedHandler = NewPinnedComparisonsHandler(r.resolveBaseHandler(), r.ResolveStore())

	return r.pinnedHandler
}

func (r *Resolver) resolveDatasetHandler() *DatasetHandler {
	if r.datasetHandler != nil {
		return r.datasetHandler
	}

	r.datasetHandler = NewDatasetHandler(r.resolveBaseHandler(), r.resolveDatasetEventsHub())

	return r.datasetHandler
}

func (r *Resolver) resolveMethodologyHandler() *MethodologyHandler {
	if r.methodologyHandler != nil {
		return r.methodologyHandler
	}

	r.methodologyHandler = NewMethodologyHandler(r.resolveBaseHandler())

	return r.methodologyHandler
}

func (r *Resolver) resolveHealthCheck() *HealthCheck {
	if r.healthCheck != nil {
		return r.healthCheck
	}

	r.healthCheck = NewHealthCheck(r.ResolveDatasetManager(), r.ResolveStore())

	return r.healthCheck
}

func (r *Resolver) ResolveRouter(fs http.FileSystem) http.Handler {
	return Router(
		fs,
		r.resolveSummaryHandler(),
		r.resolveComparisonHandler(),
		r.resolvePinnedComparisonsHandler(),
		r.resolveDatasetHandler(),
		r.resolveMethodologyHandler(),
		r.resolveHealthCheck(),
	)
}

type BaseHandler struct {
	viewRenderer *Renderer
	datasets     *DatasetManager
}

func NewBaseHandler(viewRenderer *Renderer, datasets *DatasetManager) *BaseHandler {
	return &BaseHandler{
		viewRenderer: viewRenderer,
		datasets:     datasets,
	}
}

// records returns the current dataset's records, or writes an error if there isn't one.
func (bh *BaseHandler) records(w http.ResponseWriter) ([]ResultRecord, bool) {
	dataset, err := bh.datasets.Current()

	if err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return nil, false
	}

	return dataset.Records, true
}
