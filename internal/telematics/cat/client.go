// Package cat pulls equipment locations from the CAT ISO 15143-3 (AEMP) fleet
// API. Auth is an OAuth2 client-credentials token from the vendor's Entra ID
// endpoint.
package cat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-tracker/internal/telematics"
)

const (
	fleetPathFormat = "/telematics/iso15143/fleet/%d"
	maxPages        = 50
)

type Client struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func New(baseURL string, tokenURL string, clientID string, clientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string {
	return "cat"
}

// Fetch walks fleet pages following Next links until exhausted or maxPages.
func (c *Client) Fetch(ctx context.Context) ([]telematics.Record, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]telematics.Record, 0)
	page := 1

	for i := 0; i < maxPages; i++ {
		fleet, err := c.fetchFleetPage(ctx, token, page)
		if err != nil {
			return nil, err
		}

		for _, item := range fleet.Equipment {
			if rec, ok := normalizeEquipment(item, fleet.SnapshotTime); ok {
				records = append(records, rec)
			}
		}

		next, ok := nextPageNumber(fleet.Links)
		if !ok {
			break
		}
		page = next
	}

	return records, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	// Scope is ClientID/.default per the vendor docs.
	form.Set("scope", c.clientID+"/.default")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return "", fmt.Errorf("cat token error %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("cat token response missing access_token")
	}

	return tok.AccessToken, nil
}

type fleetLink struct {
	Rel  string `json:"Rel"`
	Href string `json:"Href"`
}

type fleetPage struct {
	Links        []fleetLink       `json:"Links"`
	Equipment    []json.RawMessage `json:"Equipment"`
	SnapshotTime string            `json:"SnapshotTime"`
}

func (c *Client) fetchFleetPage(ctx context.Context, token string, page int) (*fleetPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+fmt.Sprintf(fleetPathFormat, page), nil)
	if err != nil {
		return nil, fmt.Errorf("build fleet request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	// Any unique value works; a UUID makes each request traceable vendor-side.
	req.Header.Set("X-Cat-API-Tracking-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fleet page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, fmt.Errorf("cat fleet page %d error %d: %s", page, resp.StatusCode, string(body))
	}

	var fleet fleetPage
	if err := json.NewDecoder(resp.Body).Decode(&fleet); err != nil {
		return nil, fmt.Errorf("decode fleet page %d: %w", page, err)
	}

	return &fleet, nil
}

// nextPageNumber extracts the page number from a Next link, e.g.
// {"Rel": "Next", "Href": ".../telematics/iso15143/fleet/5"}.
func nextPageNumber(links []fleetLink) (int, bool) {
	for _, link := range links {
		if !strings.EqualFold(link.Rel, "next") || link.Href == "" {
			continue
		}

		parsed, err := url.Parse(link.Href)
		if err != nil {
			return 0, false
		}

		segments := strings.Split(strings.TrimRight(parsed.Path, "/"), "/")
		page, err := strconv.Atoi(segments[len(segments)-1])
		if err != nil || page < 1 {
			return 0, false
		}
		return page, true
	}

	return 0, false
}
