package earthsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/catalog/entities"
	"github.com/airbusgeo/sentinel1-downloader/common"
	"github.com/airbusgeo/sentinel1-downloader/interface/catalog"
	"github.com/airbusgeo/sentinel1-downloader/service"
	"github.com/airbusgeo/sentinel1-downloader/service/log"
)

const (
	EarthSearchURL          = "https://earth-search.aws.element84.com/v1/search"
	CollectionS1GRD         = "sentinel-1-grd"
	EarthSearchCatalogLimit = 50
)

type searchRequest struct {
	Collections []string  `json:"collections"`
	Bbox        []float64 `json:"bbox,omitempty"`
	Datetime    string    `json:"datetime,omitempty"`
	Limit       int       `json:"limit,omitempty"`
}

type searchResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Id         string                 `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Assets     map[string]asset       `json:"assets"`
}

type asset struct {
	Href string `json:"href"`
}

// Provider implements catalog.ScenesProvider against an earth-search STAC endpoint
type Provider struct {
	URL        string
	Collection string
	Limit      int
}

// SearchScenes implements catalog.ScenesProvider.
// One search request, all returned items materialized eagerly.
func (p *Provider) SearchScenes(ctx context.Context, window entities.SearchWindow) ([]*entities.Scene, error) {
	if p.URL == "" {
		p.URL = EarthSearchURL
	}
	if p.Collection == "" {
		p.Collection = CollectionS1GRD
	}
	if p.Limit == 0 {
		p.Limit = EarthSearchCatalogLimit
	}

	searchReq := searchRequest{
		Collections: []string{p.Collection},
		Bbox:        window.BBox[:],
		Datetime:    window.Start.Format(time.RFC3339) + "/" + window.End.Format(time.RFC3339),
		Limit:       p.Limit,
	}

	reqBody := &bytes.Buffer{}
	if err := json.NewEncoder(reqBody).Encode(searchReq); err != nil {
		return nil, fmt.Errorf("SearchScenes(EarthSearch).json.encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("SearchScenes(EarthSearch).NewRequest: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	respBody, err := service.GetBodyReq(req)
	if err != nil {
		return nil, catalog.ErrCatalogUnavailable{Catalog: p.URL, Err: err}
	}

	search := &searchResponse{}
	if err := json.Unmarshal(respBody, search); err != nil {
		return nil, catalog.ErrCatalogUnavailable{Catalog: p.URL, Err: fmt.Errorf("parse body: %w", err)}
	}

	scenes := make([]*entities.Scene, len(search.Features))
	for i, f := range search.Features {
		scenes[i] = &entities.Scene{
			SourceID:        f.Id,
			AcquisitionTime: parseDatetime(ctx, f),
			Assets:          polarizationAssets(f),
		}
	}
	return scenes, nil
}

// parseDatetime parses the datetime property of a feature.
// Timestamps lacking timezone information are rejected: the scene is treated
// as untimed and will never be selected while a timed scene exists.
func parseDatetime(ctx context.Context, f feature) time.Time {
	s, ok := f.Properties["datetime"].(string)
	if !ok || s == "" {
		log.Logger(ctx).Sugar().Warnf("scene %s: no datetime property", f.Id)
		return time.Time{}
	}
	date, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		log.Logger(ctx).Sugar().Warnf("scene %s: unusable datetime %q: %v", f.Id, s, err)
		return time.Time{}
	}
	return date.UTC()
}

// polarizationAssets keeps the recognized polarization channels of the feature
func polarizationAssets(f feature) map[common.Polarization]entities.AssetRef {
	assets := map[common.Polarization]entities.AssetRef{}
	for key, a := range f.Assets {
		if pol := common.GetPolarizationFromString(key); pol != "" && a.Href != "" {
			assets[pol] = entities.AssetRef{Href: a.Href}
		}
	}
	return assets
}
