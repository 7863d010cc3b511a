package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cj123/sessions"
	"github.com/etcd-io/bbolt"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var config = defaultConfiguration()

type Configuration struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Store      StoreConfig      `yaml:"store"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Debug      bool             `yaml:"debug"`
}

type HTTPConfig struct {
	Hostname         string `yaml:"hostname"`
	SessionKey       string `yaml:"session_key"`
	SessionStoreType string `yaml:"session_store_type"`
	SessionStorePath string `yaml:"session_store_path"`
	OpenBrowser      bool   `yaml:"open_browser"`
}

type DatasetConfig struct {
	Path string `yaml:"path"`

	// WatchForChanges reloads the dataset when the file at Path is modified.
	WatchForChanges bool `yaml:"watch_for_changes"`
	WatchIntervalMs int  `yaml:"watch_interval_ms"`
}

func (d *DatasetConfig) WatchInterval() time.Duration {
	return time.Duration(d.WatchIntervalMs) * time.Millisecond
}

type StoreConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

type DashboardConfig struct {
	Title           string `yaml:"title"`
	TopN            int    `yaml:"top_n"`
	TopTrendDrivers int    `yaml:"top_trend_drivers"`
}

func (d DashboardConfig) SummaryOptions() SummaryOptions {
	return SummaryOptions{
		TopN:            d.TopN,
		TopTrendDrivers: d.TopTrendDrivers,
	}
}

type MonitoringConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SentryDSN string `yaml:"sentry_dsn"`
}

const (
	sessionStoreCookie     = "cookie"
	sessionStoreFilesystem = "filesystem"

	storeTypeBolt = "boltdb"
	storeTypeJSON = "json"
)

func defaultConfiguration() *Configuration {
	conf := &Configuration{}
	conf.applyDefaults()

	return conf
}

func (c *Configuration) applyDefaults() {
	if c.HTTP.Hostname == "" {
		c.HTTP.Hostname = "0.0.0.0:8772"
	}

	if c.HTTP.SessionStoreType == "" {
		c.HTTP.SessionStoreType = sessionStoreCookie
	}

	if c.Dataset.Path == "" {
		c.Dataset.Path = "results.csv"
	}

	if c.Dataset.WatchIntervalMs <= 0 {
		c.Dataset.WatchIntervalMs = 2000
	}

	if c.Store.Type == "" {
		c.Store.Type = storeTypeJSON
	}

	if c.Store.Path == "" {
		c.Store.Path = "store"
	}

	if c.Dashboard.Title == "" {
		c.Dashboard.Title = "Formula 1 Results Dashboard"
	}

	if c.Dashboard.TopN <= 0 {
		c.Dashboard.TopN = DefaultSummaryOptions.TopN
	}

	if c.Dashboard.TopTrendDrivers <= 0 {
		c.Dashboard.TopTrendDrivers = DefaultSummaryOptions.TopTrendDrivers
	}
}

func (h *HTTPConfig) createSessionStore() (sessions.Store, error) {
	if h.SessionKey == "" {
		logrus.Warn("No session key is set in the http config, flash messages will not survive a restart")
		h.SessionKey = randomKey()
	}

	switch h.SessionStoreType {
	case sessionStoreFilesystem:
		if info, err := os.Stat(h.SessionStorePath); os.IsNotExist(err) {
			err := os.MkdirAll(h.SessionStorePath, 0755)

			if err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else if !info.IsDir() {
			return nil, errors.New("dashboard: session store location must be a directory")
		}

		return sessions.NewFilesystemStore(h.SessionStorePath, []byte(h.SessionKey)), nil

	case sessionStoreCookie:
		fallthrough
	default:
		return sessions.NewCookieStore([]byte(h.SessionKey)), nil
	}
}

func (s *StoreConfig) BuildStore() (Store, error) {
	switch s.Type {
	case storeTypeBolt:
		bbdb, err := bbolt.Open(s.Path, 0644, &bbolt.Options{Timeout: time.Second * 5})

		if err != nil {
			return nil, err
		}

		return NewBoltStore(bbdb), nil
	case storeTypeJSON:
		return NewJSONStore(s.Path), nil
	default:
		return nil, fmt.Errorf("invalid store type (%s), must be either boltdb/json", s.Type)
	}
}

// ReadConfig reads the YAML configuration at location. Options left out of the file
// take their default values.
func ReadConfig(location string) (conf *Configuration, err error) {
	f, err := os.Open(location)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	conf = &Configuration{}

	if err := yaml.NewDecoder(f).Decode(conf); err != nil && err != io.EOF {
		return nil, err
	}

	conf.applyDefaults()

	config = conf
	sessionsStore, err = conf.HTTP.createSessionStore()

	if err != nil {
		return nil, err
	}

	return conf, nil
}
