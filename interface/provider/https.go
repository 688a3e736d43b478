package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/service"
	"github.com/airbusgeo/sentinel1-downloader/service/log"
	"github.com/cavaliercoder/grab"
	"github.com/google/uuid"
)

// HTTPSProvider implements AssetProvider with a streamed HTTPS GET.
// Bucket-style references are normalized to the public HTTPS endpoint first.
type HTTPSProvider struct {
}

// NewHTTPSProvider creates a new AssetProvider for direct HTTPS downloads
func NewHTTPSProvider() *HTTPSProvider {
	return &HTTPSProvider{}
}

// Name implements AssetProvider
func (ip *HTTPSProvider) Name() string {
	return "HTTPS"
}

// Download implements AssetProvider.
// The body is streamed to a temporary file renamed into place on success, so
// a failed download never leaves a truncated localFile behind.
func (ip *HTTPSProvider) Download(ctx context.Context, href, localFile string) error {
	url, err := NormalizeHref(href)
	if err != nil {
		return fmt.Errorf("HTTPSProvider.%w", err)
	}

	tmpFile := localFile + "." + uuid.New().String() + ".part"
	req, err := grab.NewRequest(tmpFile, url)
	if err != nil {
		return fmt.Errorf("HTTPSProvider.NewRequest: %w", err)
	}
	req = req.WithContext(ctx)

	if err := download(ctx, req, "HTTPS:"+url); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("HTTPSProvider.%w", err)
	}

	if err := os.Rename(tmpFile, localFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("HTTPSProvider.Rename: %w", err)
	}
	return nil
}

// download a file with progress display every 5%
func download(ctx context.Context, req *grab.Request, displayPrefix string) error {
	client := grab.NewClient()
	resp := client.Do(req)

	displayProgress(ctx, displayPrefix, resp, 0.05)

	if err := resp.Err(); err != nil {
		if resp.HTTPResponse == nil {
			return service.MakeTemporary(fmt.Errorf("download[%s]: %w", req.URL(), err))
		}
		dlerr := ErrDownloadFailed{Href: req.URL().String(), Status: resp.HTTPResponse.StatusCode}
		switch dlerr.Status {
		case 408, 429, 500, 501, 502, 503, 504:
			return service.MakeTemporary(dlerr)
		default:
			return dlerr
		}
	}
	return nil
}

func displayProgress(ctx context.Context, prefix string, resp *grab.Response, progressPeriod float64) {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	progress := progressPeriod
	for {
		select {
		case <-t.C:
			if resp.Progress() >= progress {
				log.Logger(ctx).Sugar().Debugf("%s: %.2f%% %s/%s", prefix, 100*resp.Progress(), fmtBytes(resp.BytesComplete()), fmtBytes(resp.Size))
				progress += progressPeriod
			}

		case <-resp.Done:
			return
		}
	}
}

func fmtBytes(bytes int64) string {
	v := float64(bytes)
	switch {
	case v > 1<<30:
		return fmt.Sprintf("%.2fGo", v/(1<<30))
	case v > 1<<20:
		return fmt.Sprintf("%.2fMo", v/(1<<20))
	case v > 1<<10:
		return fmt.Sprintf("%.2fko", v/(1<<10))
	default:
		return fmt.Sprintf("%.2fo", v)
	}
}
