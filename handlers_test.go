package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testViewsDir = "cmd/results-dashboard/views"

func newTestRouter(t *testing.T) (http.Handler, Store) {
	t.Helper()

	store := NewJSONStore(t.TempDir())
	datasets := NewStaticDatasetManager(loadTestResults(t), store)

	resolver, err := NewResolver(NewFilesystemTemplateLoader(testViewsDir), false, store, datasets)
	require.NoError(t, err)

	return resolver.ResolveRouter(http.Dir(testViewsDir + "/static")), store
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}

func getJSON(t *testing.T, router http.Handler, target string, out interface{}) {
	t.Helper()

	w := get(t, router, target)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func TestSummaryHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("view", func(t *testing.T) {
		w := get(t, router, "/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Lewis Hamilton")
		assert.Contains(t, w.Body.String(), "Unique constructors")
		assert.Contains(t, w.Body.String(), `data-type="area"`)
	})

	t.Run("view with nothing matching", func(t *testing.T) {
		w := get(t, router, "/?season=1950")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No results match the selected filters.")
	})

	t.Run("api", func(t *testing.T) {
		var summary Summary
		getJSON(t, router, "/api/summary?season=2020", &summary)

		assert.Equal(t, 5, summary.NumRecords)
		assert.Equal(t, []int{2020}, summary.Filter.Seasons)
		assert.Equal(t, "Lewis Hamilton", summary.TopDrivers[0].Entity)
	})

	t.Run("csv export", func(t *testing.T) {
		w := get(t, router, "/export/results.csv?driver="+url.QueryEscape("Charles Leclerc"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

		records, _, err := ReadResults(w.Body)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestComparisonHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("view", func(t *testing.T) {
		w := get(t, router, "/compare?kind=driver&first=Lewis+Hamilton&second=Sebastian+Vettel")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Lewis Hamilton is the better investment choice with a higher Risk-Adjusted Return (0.29 vs -7.07).")
	})

	t.Run("view defaults to the first two names", func(t *testing.T) {
		w := get(t, router, "/compare?kind=constructor")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Mercedes is the better investment choice")
	})

	t.Run("nationalities can't be compared", func(t *testing.T) {
		w := get(t, router, "/compare?kind=nationality")

		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("api", func(t *testing.T) {
		var resp struct {
			Winner         string `json:"winner"`
			Recommendation string `json:"recommendation"`
			First          struct {
				Name    string `json:"name"`
				Metrics struct {
					RiskAdjusted float64 `json:"risk_adjusted"`
				} `json:"metrics"`
			} `json:"first"`
		}

		getJSON(t, router, "/api/compare?kind=constructors&first=Ferrari&second=Mercedes", &resp)

		assert.Equal(t, "Mercedes", resp.Winner)
		assert.Equal(t, "Ferrari", resp.First.Name)
		assert.InDelta(t, -1.855328, resp.First.Metrics.RiskAdjusted, 1e-6)
		assert.NotEmpty(t, resp.Recommendation)
	})

	t.Run("api unknown kind", func(t *testing.T) {
		w := get(t, router, "/api/compare?kind=team&first=a&second=b")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("trend", func(t *testing.T) {
		var resp trendResponse
		getJSON(t, router, "/api/trend?kind=driver&entity="+url.QueryEscape("Charles Leclerc"), &resp)

		assert.Equal(t, EntityDriver, resp.Kind)
		assert.Equal(t, []int{2019, 2020}, resp.Trend.Seasons())
		assert.InDelta(t, 9.544512, resp.Metrics.CAGR, 1e-6)
	})

	t.Run("trend without an entity", func(t *testing.T) {
		w := get(t, router, "/api/trend?kind=driver")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPinnedComparisonsHandler(t *testing.T) {
	router, store := newTestRouter(t)

	form := url.Values{
		"kind":   {"driver"},
		"first":  {"Lewis Hamilton"},
		"second": {"Sebastian Vettel"},
	}

	r := httptest.NewRequest(http.MethodPost, "/pinned", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/pinned", w.Header().Get("Location"))

	pinned, err := store.ListPinnedComparisons()
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, EntityDriver, pinned[0].Kind)

	r = httptest.NewRequest(http.MethodPost, "/pinned", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)

	pinned, err = store.ListPinnedComparisons()
	require.NoError(t, err)
	require.Len(t, pinned, 1, "pinning the same comparison twice keeps one entry")

	w = get(t, router, "/pinned")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lewis Hamilton vs Sebastian Vettel")

	w = get(t, router, "/pinned/"+pinned[0].ID.String()+"/delete")
	assert.Equal(t, http.StatusFound, w.Code)

	pinned, err = store.ListPinnedComparisons()
	require.NoError(t, err)
	assert.Empty(t, pinned)

	w = get(t, router, "/pinned/missing/delete")
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("missing names", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pinned", strings.NewReader("kind=driver&first=Lewis+Hamilton"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/compare", w.Header().Get("Location"))

		pinned, err := store.ListPinnedComparisons()
		require.NoError(t, err)
		assert.Empty(t, pinned)
	})
}

func TestDatasetAndHealthHandlers(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("dataset info", func(t *testing.T) {
		var info DatasetInfo
		getJSON(t, router, "/api/dataset", &info)

		assert.Equal(t, "memory", info.Source)
		assert.Equal(t, 13, info.NumRecord)
	})

	t.Run("healthcheck", func(t *testing.T) {
		var health HealthCheckResponse
		getJSON(t, router, "/healthcheck.json", &health)

		assert.True(t, health.OK)
		assert.True(t, health.DatasetIsLoaded)
		assert.True(t, health.StoreIsReachable)
		assert.Equal(t, 13, health.NumRecords)
	})

	t.Run("about", func(t *testing.T) {
		w := get(t, router, "/about")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Compound annual growth rate")
	})

	t.Run("static", func(t *testing.T) {
		w := get(t, router, "/static/style.css")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandlers_NoDataset(t *testing.T) {
	store := NewJSONStore(t.TempDir())
	datasets := NewDatasetManager("", store)

	resolver, err := NewResolver(NewFilesystemTemplateLoader(testViewsDir), false, store, datasets)
	require.NoError(t, err)

	router := resolver.ResolveRouter(nil)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/api/summary").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/healthcheck.json").Code)
}
