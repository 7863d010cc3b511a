package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/JustaPenguin/race-results-dashboard"
	"github.com/JustaPenguin/race-results-dashboard/cmd/results-dashboard/views"
)

var defaultAddress = "0.0.0.0:8772"

func main() {
	configFile := "config.yml"

	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	config, err := dashboard.ReadConfig(configFile)

	if err != nil {
		ServeHTTPWithError(defaultAddress, "Read configuration file (config.yml)", err)
		return
	}

	dashboard.InitLogging()

	if config.Monitoring.Enabled {
		dashboard.InitMonitoring(config.Monitoring)
	}

	store, err := config.Store.BuildStore()

	if err != nil {
		ServeHTTPWithError(config.HTTP.Hostname, "Open the dashboard store", err)
		return
	}

	defer store.Close()

	datasets := dashboard.NewDatasetManager(config.Dataset.Path, store)

	if _, err := datasets.Load(); err != nil {
		ServeHTTPWithError(config.HTTP.Hostname, "Load the results dataset ("+config.Dataset.Path+")", err)
		return
	}

	resolver, err := dashboard.NewResolver(&views.TemplateLoader{}, dashboard.Debug, store, datasets)

	if err != nil {
		logrus.Fatalf("could not initialise resolver, err: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    config.HTTP.Hostname,
		Handler: resolver.ResolveRouter(views.Static()),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("starting results dashboard on: %s", config.HTTP.Hostname)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if config.Dataset.WatchForChanges {
		g.Go(func() error {
			if err := datasets.Watch(ctx, config.Dataset.WatchInterval()); err != nil {
				logrus.WithError(err).Error("stopped watching the results dataset for changes")
			}

			return nil
		})
	}

	if config.HTTP.OpenBrowser {
		_ = browser.OpenURL("http://" + strings.Replace(config.HTTP.Hostname, "0.0.0.0", "127.0.0.1", 1))
	}

	if err := g.Wait(); err != nil {
		logrus.Fatal(err)
	}
}
