package earthsearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/catalog/entities"
	"github.com/airbusgeo/sentinel1-downloader/common"
	"github.com/airbusgeo/sentinel1-downloader/interface/catalog"
	"github.com/go-spatial/geom"
)

func searchWindow() entities.SearchWindow {
	return entities.SearchWindow{
		BBox:  geom.Extent{128.875, 34.9796, 129.275, 35.3796},
		Start: time.Date(2023, 5, 22, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 6, 11, 23, 59, 59, 0, time.UTC),
	}
}

const searchResults = `{
	"features": [
		{
			"id": "S1A_IW_GRDH_1SDV_20230602T012345_20230602T012410_048831_05DFA8_41D2",
			"properties": {"datetime": "2023-06-02T01:23:45.000000Z"},
			"assets": {
				"vv": {"href": "s3://sentinel-s1-l1c/GRD/iw-vv.tiff"},
				"vh": {"href": "s3://sentinel-s1-l1c/GRD/iw-vh.tiff"},
				"thumbnail": {"href": "https://example.com/thumbnail.png"}
			}
		},
		{
			"id": "S1A_NOTIME",
			"properties": {"datetime": "2023-06-01T00:00:00"},
			"assets": {"vv": {"href": "s3://sentinel-s1-l1c/GRD/other-vv.tiff"}}
		}
	]
}`

func TestSearchScenes(t *testing.T) {
	var gotReq map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != "POST" {
			t.Errorf("expecting POST, got %s", req.Method)
		}
		if err := json.NewDecoder(req.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(searchResults))
	}))
	defer server.Close()

	p := Provider{URL: server.URL}
	scenes, err := p.SearchScenes(context.Background(), searchWindow())
	if err != nil {
		t.Fatalf("%v", err)
	}

	if gotReq["collections"].([]interface{})[0] != "sentinel-1-grd" {
		t.Errorf("unexpected collections: %v", gotReq["collections"])
	}
	if bbox := gotReq["bbox"].([]interface{}); len(bbox) != 4 || bbox[0].(float64) != 128.875 {
		t.Errorf("unexpected bbox: %v", bbox)
	}
	if gotReq["datetime"] != "2023-05-22T00:00:00Z/2023-06-11T23:59:59Z" {
		t.Errorf("unexpected datetime: %v", gotReq["datetime"])
	}
	if gotReq["limit"].(float64) != 50 {
		t.Errorf("unexpected limit: %v", gotReq["limit"])
	}

	if len(scenes) != 2 {
		t.Fatalf("expecting 2 scenes, got %d", len(scenes))
	}
	if !scenes[0].AcquisitionTime.Equal(time.Date(2023, 6, 2, 1, 23, 45, 0, time.UTC)) {
		t.Errorf("unexpected acquisition time: %v", scenes[0].AcquisitionTime)
	}
	if len(scenes[0].Assets) != 2 {
		t.Errorf("expecting the 2 polarization assets only, got %v", scenes[0].Assets)
	}
	if scenes[0].Assets[common.PolarizationVV].Href != "s3://sentinel-s1-l1c/GRD/iw-vv.tiff" {
		t.Errorf("unexpected vv asset: %v", scenes[0].Assets[common.PolarizationVV])
	}

	// timestamp without timezone is rejected: the scene is untimed
	if scenes[1].HasAcquisitionTime() {
		t.Errorf("expecting an untimed scene, got %v", scenes[1].AcquisitionTime)
	}
}

func TestSearchScenesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(500)
	}))
	defer server.Close()

	p := Provider{URL: server.URL}
	_, err := p.SearchScenes(context.Background(), searchWindow())
	var unavailable catalog.ErrCatalogUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expecting ErrCatalogUnavailable, got %v", err)
	}
}

func TestSearchScenesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("not a json"))
	}))
	defer server.Close()

	p := Provider{URL: server.URL}
	_, err := p.SearchScenes(context.Background(), searchWindow())
	var unavailable catalog.ErrCatalogUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expecting ErrCatalogUnavailable, got %v", err)
	}
}

func TestSearchScenesUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	server.Close()

	p := Provider{URL: server.URL}
	_, err := p.SearchScenes(context.Background(), searchWindow())
	var unavailable catalog.ErrCatalogUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expecting ErrCatalogUnavailable, got %v", err)
	}
}
