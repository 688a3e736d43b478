package downloader

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/catalog/entities"
	"github.com/airbusgeo/sentinel1-downloader/common"
	"github.com/airbusgeo/sentinel1-downloader/interface/provider"
	"github.com/gorilla/mux"
)

func newTestRouter(t *testing.T, cat *fakeCatalog) *mux.Router {
	d := Downloader{Catalog: cat, Provider: provider.NewHTTPSProvider(), OutDir: t.TempDir()}
	r := mux.NewRouter()
	d.AddHandler(r)
	return r
}

func TestRetrieveHandler(t *testing.T) {
	server := assetServer(t)
	defer server.Close()

	cat := &fakeCatalog{scenes: []*entities.Scene{testScene(server, common.PolarizationVV, common.PolarizationVH)}}
	r := newTestRouter(t, cat)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"lon": 129.075, "lat": 35.1796, "date": "2023-06-01"}`))
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expecting 200, got %d: %s", w.Code, w.Body.String())
	}
	outcome := RetrievalOutcome{}
	if err := json.NewDecoder(w.Body).Decode(&outcome); err != nil {
		t.Fatalf("%v", err)
	}
	if outcome.SceneID != sceneID || len(outcome.Channels) != 2 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	if !outcome.AcquisitionTime.Equal(time.Date(2023, 6, 2, 1, 23, 45, 0, time.UTC)) {
		t.Errorf("unexpected acquisition time: %v", outcome.AcquisitionTime)
	}
}

func TestRetrieveHandlerBadRequest(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/retrieve", strings.NewReader("not a json")))
	if w.Code != 400 {
		t.Errorf("expecting 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"lon": 1, "lat": 2}`)))
	if w.Code != 400 {
		t.Errorf("expecting 400 on a missing date, got %d", w.Code)
	}
}

func TestRetrieveHandlerNoScenes(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"lon": 129.075, "lat": 35.1796, "date": "2023-06-01"}`)))

	if w.Code != 404 {
		t.Fatalf("expecting 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no Sentinel-1 GRD scene found") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter(t, &fakeCatalog{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != 200 {
		t.Errorf("expecting 200, got %d", w.Code)
	}
}
