package provider

import (
	"fmt"
	"strings"
)

const s3Scheme = "s3://"

// splitBucketKey splits a bucket-style reference into bucket and key.
// Raises ErrMalformedRef when either component is missing.
func splitBucketKey(href string) (string, string, error) {
	rest := strings.TrimPrefix(href, s3Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", ErrMalformedRef{Href: href}
	}
	return bucket, key, nil
}

// NormalizeHref rewrites a bucket-style reference into the public object-storage
// HTTPS endpoint. Directly fetchable references are returned unchanged.
func NormalizeHref(href string) (string, error) {
	if !strings.HasPrefix(href, s3Scheme) {
		return href, nil
	}
	bucket, key, err := splitBucketKey(href)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key), nil
}
