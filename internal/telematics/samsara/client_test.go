package samsara

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	var authHeaders []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case vehicleLocationsPath:
			if r.URL.Query().Get("after") == "" {
				fmt.Fprint(w, `{
					"data": [{"id": "v1", "name": "Truck 1", "location": {"latitude": 1, "longitude": 2, "time": "2026-08-01T12:00:00Z"}}],
					"pagination": {"endCursor": "page2", "hasNextPage": true}
				}`)
				return
			}
			fmt.Fprint(w, `{
				"data": [{"id": "v2", "name": "Truck 2", "location": {"latitude": 3, "longitude": 4, "time": "2026-08-01T12:01:00Z"}}],
				"pagination": {"endCursor": "", "hasNextPage": false}
			}`)
		case equipmentLocationsPath:
			fmt.Fprint(w, `{"data": [], "pagination": {"hasNextPage": false}}`)
		case assetLocationsPath:
			fmt.Fprint(w, `{
				"assets": [{"assetId": 7, "name": "Dozer", "location": [{"latitude": 5, "longitude": 6, "timeMs": 1754042400000}]}],
				"pagination": {"hasNextPage": false}
			}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(server.URL, "test-token")
	records, err := client.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "v1", records[0].ExternalID)
	assert.Equal(t, "v2", records[1].ExternalID)
	assert.Equal(t, "7", records[2].ExternalID)

	for _, h := range authHeaders {
		assert.Equal(t, "Bearer test-token", h)
	}
}

func TestClientFetchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "bad token"}`)
	}))
	defer server.Close()

	client := New(server.URL, "bad")
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samsara API error 401")
}
