// Package downloader locates the Sentinel-1 GRD scene nearest to a location
// and date, and retrieves its polarization assets to local storage.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/catalog"
	"github.com/airbusgeo/sentinel1-downloader/catalog/entities"
	"github.com/airbusgeo/sentinel1-downloader/common"
	ifcatalog "github.com/airbusgeo/sentinel1-downloader/interface/catalog"
	"github.com/airbusgeo/sentinel1-downloader/interface/provider"
	"github.com/airbusgeo/sentinel1-downloader/service/log"
)

// DefaultDaysMargin is the default temporal search margin around the target date
const DefaultDaysMargin = 10

// ChannelResult is the outcome of one polarization channel of a retrieval.
// Exactly one of LocalFile, Absent or Error is meaningful.
type ChannelResult struct {
	Polarization common.Polarization `json:"polarization"`
	LocalFile    string              `json:"local_file,omitempty"`
	Absent       bool                `json:"absent,omitempty"`
	Error        string              `json:"error,omitempty"`
	// Status is the HTTP status of a failed download, when known
	Status int `json:"status,omitempty"`
}

// RetrievalOutcome summarizes one retrieval: the selected scene and one
// result per recognized polarization channel.
type RetrievalOutcome struct {
	SceneID         string          `json:"scene_id"`
	AcquisitionTime time.Time       `json:"acquisition_time"`
	Channels        []ChannelResult `json:"channels"`
}

// Downloader retrieves Sentinel-1 GRD scenes. OutDir is explicit construction
// state: each instance writes only below its own output directory.
type Downloader struct {
	Catalog  ifcatalog.ScenesProvider
	Provider provider.AssetProvider
	OutDir   string
}

// Retrieve finds the scene nearest to date (YYYY-MM-DD) within ±marginDays
// around (lon, lat) and downloads its polarization assets to OutDir.
// Catalog-level failures abort the invocation; per-channel failures are
// recorded in the outcome and never affect the sibling channel.
// No retry is performed at any step.
func (d *Downloader) Retrieve(ctx context.Context, lon, lat float64, dateStr string, marginDays int) (*RetrievalOutcome, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("Retrieve.parse date: %w", err)
	}
	if marginDays <= 0 {
		marginDays = DefaultDaysMargin
	}

	if err := os.MkdirAll(d.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("Retrieve.MkdirAll: %w", err)
	}

	window := catalog.NewSearchWindow(lon, lat, date, marginDays)
	scenes, err := d.Catalog.SearchScenes(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("Retrieve.%w", err)
	}
	log.Logger(ctx).Sugar().Infof("found %d Sentinel-1 GRD scenes", len(scenes))

	if len(scenes) == 0 {
		return nil, catalog.ErrNoScenesFound{Date: date, Lon: lon, Lat: lat, MarginDays: marginDays}
	}

	scene := catalog.SelectNearest(scenes, date)
	logSelected(ctx, scene)

	outcome := &RetrievalOutcome{
		SceneID:         scene.SourceID,
		AcquisitionTime: scene.AcquisitionTime,
	}
	for _, pol := range common.Polarizations {
		outcome.Channels = append(outcome.Channels, d.retrieveChannel(ctx, scene, pol))
	}
	return outcome, nil
}

// retrieveChannel downloads one polarization of the scene. Failures are
// contained in the result.
func (d *Downloader) retrieveChannel(ctx context.Context, scene *entities.Scene, pol common.Polarization) ChannelResult {
	res := ChannelResult{Polarization: pol}

	asset, ok := scene.Assets[pol]
	if !ok {
		log.Logger(ctx).Sugar().Infof("%s: scene %s has no %s asset", pol, scene.SourceID, pol)
		res.Absent = true
		return res
	}

	localFile := filepath.Join(d.OutDir, common.AssetFileName(scene.SourceID, pol))
	log.Logger(ctx).Sugar().Infof("%s: downloading %s to %s", pol, asset.Href, localFile)
	if err := d.Provider.Download(ctx, asset.Href, localFile); err != nil {
		log.Logger(ctx).Sugar().Warnf("%s: %v", pol, err)
		res.Error = err.Error()
		var dlerr provider.ErrDownloadFailed
		if errors.As(err, &dlerr) {
			res.Status = dlerr.Status
		}
		return res
	}

	res.LocalFile = localFile
	return res
}

func logSelected(ctx context.Context, scene *entities.Scene) {
	logger := log.Logger(ctx).Sugar()
	logger.Infof("selected scene %s (acquired %s)", scene.SourceID, formatAcquisitionTime(scene.AcquisitionTime))
	if info, err := common.Info(scene.SourceID); err == nil {
		logger.Debugf("scene %s: mode=%s polarisation=%s orbit=%s", scene.SourceID, info["MODE"], info["POLARISATION"], info["ORBIT"])
	}
}

// Summary renders the human-readable report of the retrieval
func (o *RetrievalOutcome) Summary() string {
	lines := []string{"Download results:"}
	for _, c := range o.Channels {
		lines = append(lines, fmt.Sprintf(" %s: %s", strings.ToUpper(string(c.Polarization)), c.describe()))
	}
	lines = append(lines, "Acquisition time: "+formatAcquisitionTime(o.AcquisitionTime))
	return strings.Join(lines, "\n")
}

func (c ChannelResult) describe() string {
	switch {
	case c.Absent:
		return "channel not available for this scene"
	case c.Status != 0:
		return fmt.Sprintf("download failed (status code: %d)", c.Status)
	case c.Error != "":
		return "download failed: " + c.Error
	}
	return c.LocalFile
}

func formatAcquisitionTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(time.RFC3339)
}
