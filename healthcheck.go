package dashboard

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/hako/durafmt"
)

var LaunchTime = time.Now()

type HealthCheck struct {
	datasets *DatasetManager
	store    Store
}

func NewHealthCheck(datasets *DatasetManager, store Store) *HealthCheck {
	return &HealthCheck{
		datasets: datasets,
		store:    store,
	}
}

type HealthCheckResponse struct {
	OK      bool
	Version string

	OS            string
	NumCPU        int
	NumGoroutines int
	Uptime        string
	GoVersion     string

	DatasetIsLoaded  bool
	DatasetSource    string
	DatasetAge       string
	NumRecords       int
	NumDiscardedRows int
	StoreIsReachable bool
}

func (h *HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthCheckResponse{
		OS:            runtime.GOOS + "/" + runtime.GOARCH,
		Version:       BuildVersion,
		NumCPU:        runtime.NumCPU(),
		NumGoroutines: runtime.NumGoroutine(),
		Uptime:        durafmt.Parse(time.Since(LaunchTime).Round(time.Second)).String(),
		GoVersion:     runtime.Version(),
	}

	if dataset, err := h.datasets.Current(); err == nil {
		info := dataset.Info()

		resp.DatasetIsLoaded = true
		resp.DatasetSource = info.Source
		resp.DatasetAge = info.Age
		resp.NumRecords = info.NumRecord

		if info.Report != nil {
			resp.NumDiscardedRows = len(info.Report.Discarded)
		}
	}

	if h.store != nil {
		var lastLoad DatasetInfo

		err := h.store.GetMeta(datasetMetaKey, &lastLoad)
		resp.StoreIsReachable = err == nil || err == ErrValueNotSet
	}

	resp.OK = resp.DatasetIsLoaded && resp.StoreIsReachable

	if !resp.OK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = json.NewEncoder(w).Encode(resp)
}
