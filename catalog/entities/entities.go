package entities

import (
	"time"

	"github.com/airbusgeo/sentinel1-downloader/common"
	"github.com/go-spatial/geom"
)

// AssetRef locates one polarization's raster at the catalog's storage backend.
// The href may use a bucket-style scheme (s3://bucket/key) or a directly
// fetchable scheme (https://).
type AssetRef struct {
	Href string `json:"href"`
}

// Scene is one catalog entry, read-only once created by a ScenesProvider.
type Scene struct {
	// SourceID is the product identifier, e.g. S1A_IW_GRDH_1SDV_20230602T012345_...
	SourceID string
	// AcquisitionTime is zero when the catalog carried no usable datetime
	AcquisitionTime time.Time
	// Assets maps the recognized polarization channels exposed by the scene
	Assets map[common.Polarization]AssetRef
}

// HasAcquisitionTime returns whether the catalog provided a usable acquisition instant
func (s *Scene) HasAcquisitionTime() bool {
	return !s.AcquisitionTime.IsZero()
}

// SearchWindow is the spatial and temporal extent of one catalog search.
type SearchWindow struct {
	// BBox is [minLon, minLat, maxLon, maxLat] in degrees
	BBox geom.Extent
	// Start and End bound the temporal interval, Start <= End, both UTC
	Start time.Time
	End   time.Time
}

// Valid checks the window invariants
func (w SearchWindow) Valid() bool {
	return w.BBox.MinX() < w.BBox.MaxX() && w.BBox.MinY() < w.BBox.MaxY() && !w.End.Before(w.Start)
}
