// Package samsara pulls vehicle, equipment, and asset locations from the
// Samsara fleet API.
package samsara

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fleet-tracker/internal/telematics"
)

const (
	vehicleLocationsPath   = "/fleet/vehicles/locations"
	equipmentLocationsPath = "/fleet/equipment/locations"
	assetLocationsPath     = "/v1/fleet/assets/locations"

	pageLimit = 200
	// The API documents polling limits; pause between pages.
	pageDelay = 200 * time.Millisecond
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string {
	return "samsara"
}

// Fetch retrieves all three location endpoints and normalizes the results.
// Records the normalizer cannot use (no id or no usable location) are dropped.
func (c *Client) Fetch(ctx context.Context) ([]telematics.Record, error) {
	endpoints := []struct {
		path     string
		category telematics.SourceCategory
	}{
		{vehicleLocationsPath, telematics.CategoryVehiclesV2},
		{equipmentLocationsPath, telematics.CategoryEquipmentV2},
		{assetLocationsPath, telematics.CategoryAssetsV1},
	}

	records := make([]telematics.Record, 0)
	for _, ep := range endpoints {
		items, err := c.fetchPaged(ctx, ep.path)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ep.path, err)
		}

		for _, item := range items {
			if rec, ok := normalize(item, ep.category); ok {
				records = append(records, rec)
			}
		}
	}

	return records, nil
}

type pageEnvelope struct {
	Data       []json.RawMessage `json:"data"`
	Assets     []json.RawMessage `json:"assets"`
	Pagination struct {
		EndCursor   string `json:"endCursor"`
		HasNextPage bool   `json:"hasNextPage"`
	} `json:"pagination"`
}

func (c *Client) fetchPaged(ctx context.Context, path string) ([]json.RawMessage, error) {
	items := make([]json.RawMessage, 0)
	after := ""

	for {
		page, err := c.getPage(ctx, path, after)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Data...)
		items = append(items, page.Assets...)

		if !page.Pagination.HasNextPage || page.Pagination.EndCursor == "" {
			return items, nil
		}
		after = page.Pagination.EndCursor

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pageDelay):
		}
	}
}

func (c *Client) getPage(ctx context.Context, path string, after string) (*pageEnvelope, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", pageLimit))
	if after != "" {
		query.Set("after", after)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, fmt.Errorf("samsara API error %d: %s", resp.StatusCode, string(body))
	}

	var page pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &page, nil
}
