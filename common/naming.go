package common

import (
	"fmt"
	"strings"
	"time"
)

// AssetFileName returns the name of the local file for one polarization of a scene.
// e.g. S1A_IW_GRDH_1SDV_20230602T012345_..._vv.tif
func AssetFileName(sceneID string, pol Polarization) string {
	return fmt.Sprintf("%s_%s.tif", sceneID, pol)
}

// Info extracts the fields encoded in a Sentinel-1 product identifier.
// MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC
func Info(sceneName string) (map[string]string, error) {
	if !strings.HasPrefix(sceneName, "S1") {
		return nil, fmt.Errorf("not a Sentinel1 product: " + sceneName)
	}
	if len(sceneName) < len("MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC") {
		return nil, fmt.Errorf("invalid Sentinel1 file name: " + sceneName)
	}
	return map[string]string{
		"SCENE":            sceneName,
		"MISSION_ID":       sceneName[0:3],
		"MISSION_VERSION":  sceneName[2:3],
		"MODE":             sceneName[4:6],
		"PRODUCT_TYPE":     sceneName[7:10],
		"RESOLUTION":       sceneName[10:11],
		"PROCESSING_LEVEL": sceneName[12:13],
		"PRODUCT_CLASS":    sceneName[13:14],
		"POLARISATION":     sceneName[14:16],
		"DATE":             sceneName[17:25],
		"YEAR":             sceneName[17:21],
		"MONTH":            sceneName[21:23],
		"DAY":              sceneName[23:25],
		"TIME":             sceneName[26:32],
		"HOUR":             sceneName[26:28],
		"MINUTE":           sceneName[28:30],
		"SECOND":           sceneName[30:32],
		"ORBIT":            sceneName[49:55],
		"MISSION":          sceneName[56:62],
		"UNIQUE_ID":        sceneName[63:67],
	}, nil
}

// GetDateFromProductId returns the acquisition date encoded in the product identifier
func GetDateFromProductId(sceneName string) (time.Time, error) {
	format, err := Info(sceneName)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("20060102", fmt.Sprintf("%s%s%s", format["YEAR"], format["MONTH"], format["DAY"]))
}
