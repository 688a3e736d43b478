package provider

import (
	"context"
	"fmt"
)

// AssetProvider is the interface of an asset download service
type AssetProvider interface {
	// Download the asset at href into localFile.
	// href is the source location as returned by the catalog, e.g.
	// s3://sentinel-s1-l1c/GRD/.../measurement/iw-vv.tiff
	// On failure, localFile is not created and no partial file is left behind.
	Download(ctx context.Context, href, localFile string) error

	// Name of the provider
	Name() string
}

// ErrDownloadFailed is returned when the storage backend answers with a
// non-success status. Per-asset: it must not abort sibling downloads.
type ErrDownloadFailed struct {
	Href   string
	Status int
}

func (e ErrDownloadFailed) Error() string {
	return fmt.Sprintf("download failed (status code: %d): %s", e.Status, e.Href)
}

// ErrMalformedRef is returned when a bucket-style reference cannot be split
// into a bucket and a key
type ErrMalformedRef struct {
	Href string
}

func (e ErrMalformedRef) Error() string {
	return fmt.Sprintf("malformed asset reference: %s", e.Href)
}
