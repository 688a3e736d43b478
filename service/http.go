package service

import (
	"fmt"
	"io"
	"net/http"
)

// GetBodyReq performs the request and returns the whole response body.
// Any non-200 status is an error carrying the status text and body.
func GetBodyReq(req *http.Request) ([]byte, error) {
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GetBodyReq: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GetBodyReq: %s: %s", resp.Status, body)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GetBodyReq.ReadAll: %w", err)
	}
	return body, nil
}
