// Package catalog computes search windows and selects the best-matching scene
// among the candidates returned by a catalog provider.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/catalog/entities"
	"github.com/go-spatial/geom"
)

// BBoxMargin is the half-size, in degrees, of the spatial search box (roughly 20km)
const BBoxMargin = 0.2

// ErrNoScenesFound is returned when the search window yields no candidate.
// Non-exceptional: the caller reports it as a descriptive result.
type ErrNoScenesFound struct {
	Date       time.Time
	Lon, Lat   float64
	MarginDays int
}

func (e ErrNoScenesFound) Error() string {
	return fmt.Sprintf("no Sentinel-1 GRD scene found within ±%d days of %s (lon=%g, lat=%g)",
		e.MarginDays, e.Date.Format("2006-01-02"), e.Lon, e.Lat)
}

// NewSearchWindow returns the window centered on (lon, lat) expanded by BBoxMargin
// and on date expanded by marginDays. The temporal interval is clamped to
// 00:00:00Z of its first day and 23:59:59Z of its last day.
func NewSearchWindow(lon, lat float64, date time.Time, marginDays int) entities.SearchWindow {
	start := date.UTC().AddDate(0, 0, -marginDays)
	end := date.UTC().AddDate(0, 0, marginDays)
	return entities.SearchWindow{
		BBox:  geom.Extent{lon - BBoxMargin, lat - BBoxMargin, lon + BBoxMargin, lat + BBoxMargin},
		Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC),
	}
}

// SelectNearest returns the scene whose acquisition instant is closest to target.
// Scenes without an acquisition instant sort last and are never selected while
// a timed scene exists. Ties resolve to the first scene in catalog response order.
// Returns nil on an empty input.
func SelectNearest(scenes []*entities.Scene, target time.Time) *entities.Scene {
	if len(scenes) == 0 {
		return nil
	}
	sorted := make([]*entities.Scene, len(scenes))
	copy(sorted, scenes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timeDiff(sorted[i], target) < timeDiff(sorted[j], target)
	})
	return sorted[0]
}

// timeDiff returns the absolute difference in seconds, +inf for untimed scenes
func timeDiff(scene *entities.Scene, target time.Time) float64 {
	if !scene.HasAcquisitionTime() {
		return math.Inf(1)
	}
	return math.Abs(scene.AcquisitionTime.Sub(target).Seconds())
}
