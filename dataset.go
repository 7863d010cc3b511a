package dashboard

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/cj123/watcher"
	"github.com/hako/durafmt"
	"github.com/sirupsen/logrus"
)

// Dataset is a loaded set of results. It is never modified once loaded, a reload
// replaces it with a new Dataset.
type Dataset struct {
	Records  []ResultRecord
	Source   string
	LoadedAt time.Time
	Report   *LoadReport
}

// DatasetInfo describes a Dataset without its records.
type DatasetInfo struct {
	Source    string      `json:"source"`
	LoadedAt  time.Time   `json:"loaded_at"`
	Age       string      `json:"age"`
	NumRecord int         `json:"num_records"`
	Report    *LoadReport `json:"report"`
}

func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Source:    d.Source,
		LoadedAt:  d.LoadedAt,
		Age:       durafmt.Parse(time.Since(d.LoadedAt).Round(time.Second)).String(),
		NumRecord: len(d.Records),
		Report:    d.Report,
	}
}

const datasetMetaKey = "lastDatasetLoad"

// ErrNoDataset is returned by DatasetManager.Current before a successful Load.
var ErrNoDataset = errors.New("dashboard: no dataset loaded")

// DatasetManager holds the current Dataset and reloads it from disk.
type DatasetManager struct {
	path  string
	store Store

	mutex   sync.RWMutex
	current *Dataset

	listenersMutex sync.Mutex
	listeners      []func(*Dataset)
}

func NewDatasetManager(path string, store Store) *DatasetManager {
	return &DatasetManager{
		path:  path,
		store: store,
	}
}

// NewStaticDatasetManager serves a fixed set of records, without a file behind it.
func NewStaticDatasetManager(records []ResultRecord, store Store) *DatasetManager {
	return &DatasetManager{
		store: store,
		current: &Dataset{
			Records:  records,
			Source:   "memory",
			LoadedAt: time.Now(),
			Report:   &LoadReport{RowsRead: len(records), RowsKept: len(records)},
		},
	}
}

// Current returns the most recently loaded Dataset.
func (dm *DatasetManager) Current() (*Dataset, error) {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	if dm.current == nil {
		return nil, ErrNoDataset
	}

	return dm.current, nil
}

// OnReload registers fn to be called with each newly loaded Dataset.
func (dm *DatasetManager) OnReload(fn func(*Dataset)) {
	dm.listenersMutex.Lock()
	defer dm.listenersMutex.Unlock()

	dm.listeners = append(dm.listeners, fn)
}

// Load reads the dataset file. If it fails, the previous Dataset (if any) is kept.
func (dm *DatasetManager) Load() (*Dataset, error) {
	if dm.path == "" {
		return dm.Current()
	}

	records, report, err := LoadResults(dm.path)

	if err != nil {
		datasetLoadFailures.Inc()
		return nil, err
	}

	dataset := &Dataset{
		Records:  records,
		Source:   dm.path,
		LoadedAt: time.Now(),
		Report:   report,
	}

	dm.mutex.Lock()
	dm.current = dataset
	dm.mutex.Unlock()

	datasetRecords.Set(float64(report.RowsKept))
	datasetDiscardedRows.Set(float64(len(report.Discarded)))
	datasetLoads.Inc()

	logrus.WithField("path", dm.path).Infof("Loaded %d results", report.RowsKept)

	if dm.store != nil {
		if err := dm.store.SetMeta(datasetMetaKey, dataset.Info()); err != nil {
			logrus.WithError(err).Warn("Could not save dataset load info")
		}
	}

	dm.listenersMutex.Lock()
	listeners := dm.listeners
	dm.listenersMutex.Unlock()

	for _, fn := range listeners {
		fn(dataset)
	}

	return dataset, nil
}

// LastLoadInfo is the DatasetInfo saved by the most recent successful Load, which may
// have been made by a previous run.
func (dm *DatasetManager) LastLoadInfo() (*DatasetInfo, error) {
	var info *DatasetInfo

	if dm.store == nil {
		return nil, ErrValueNotSet
	}

	if err := dm.store.GetMeta(datasetMetaKey, &info); err != nil {
		return nil, err
	}

	return info, nil
}

// Watch reloads the dataset whenever its file is written to, until ctx is done.
func (dm *DatasetManager) Watch(ctx context.Context, interval time.Duration) error {
	if dm.path == "" {
		return nil
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)

	if err := w.Add(filepath.Dir(dm.path)); err != nil {
		return err
	}

	target, err := filepath.Abs(dm.path)

	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- w.Start(interval)
	}()

	defer w.Close()

	logrus.WithField("path", dm.path).Infof("Watching dataset for changes")

	for {
		select {
		case event := <-w.Event:
			path, err := filepath.Abs(event.Path)

			if err != nil || path != target {
				continue
			}

			logrus.WithField("path", dm.path).Infof("Dataset changed (%s), reloading", event.Op)

			if _, err := dm.Load(); err != nil {
				logrus.WithError(err).Error("Could not reload dataset, keeping the previous one")
			}
		case err := <-w.Error:
			logrus.WithError(err).Error("Dataset watcher error")
		case err := <-errCh:
			return err
		case <-w.Closed:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// DatasetHandler serves information about the loaded dataset.
type DatasetHandler struct {
	*BaseHandler

	hub *DatasetEventsHub
}

func NewDatasetHandler(baseHandler *BaseHandler, hub *DatasetEventsHub) *DatasetHandler {
	return &DatasetHandler{
		BaseHandler: baseHandler,
		hub:         hub,
	}
}

func (dh *DatasetHandler) info(w http.ResponseWriter, r *http.Request) {
	dataset, err := dh.datasets.Current()

	if err != nil {
		logrus.WithError(err).Error("could not load dataset")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, dataset.Info())
}

func (dh *DatasetHandler) events(w http.ResponseWriter, r *http.Request) {
	dh.hub.ServeHTTP(w, r)
}
