package cat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-tracker/internal/telematics"
)

func TestClientFetch(t *testing.T) {
	var tokenForm string

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		tokenForm = r.PostForm.Encode()

		fmt.Fprint(w, `{"access_token": "cat-token", "expires_in": 3600}`)
	})

	mux.HandleFunc("/telematics/iso15143/fleet/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cat-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Cat-API-Tracking-Id"))

		fmt.Fprintf(w, `{
			"Links": [{"Rel": "Next", "Href": "%s/telematics/iso15143/fleet/2"}],
			"SnapshotTime": "2026-08-01T12:00:00Z",
			"Equipment": [{
				"EquipmentHeader": {"EquipmentID": "D6-101", "SerialNumber": "SN1", "Model": "D6"},
				"Location": {"Latitude": 39.5, "Longitude": -104.9, "datetime": "2026-08-01T11:55:00Z"},
				"Distance": {"Odometer": 1234.5, "OdometerUnits": "kilometre"}
			}]
		}`, server.URL)
	})

	mux.HandleFunc("/telematics/iso15143/fleet/2", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"Links": [],
			"SnapshotTime": "2026-08-01T12:00:00Z",
			"Equipment": [{
				"EquipmentHeader": {"SerialNumber": "SN2"},
				"Location": {"Latitude": 1, "Longitude": 2}
			}]
		}`)
	})

	client := New(server.URL, server.URL+"/token", "client-id", "client-secret")
	records, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Contains(t, tokenForm, "grant_type=client_credentials")

	require.Len(t, records, 2)
	assert.Equal(t, "D6-101", records[0].ExternalID)
	assert.Equal(t, "D6-101", records[0].Name)
	assert.Equal(t, "D6", records[0].Type)
	assert.Equal(t, "cat", records[0].SourceSystem)
	assert.Equal(t, telematics.CategoryCATFleet, records[0].SourceCategory)
	require.NotNil(t, records[0].OdometerKM)
	assert.Equal(t, 1234.5, *records[0].OdometerKM)

	// Second record has no Location.datetime; SnapshotTime is used.
	assert.Equal(t, "SN2", records[1].ExternalID)
	assert.Equal(t, "2026-08-01T12:00:00Z", records[1].RecordedAt.Format("2006-01-02T15:04:05Z"))
}

func TestClientFetchTokenError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "invalid_client"}`)
	}))
	defer server.Close()

	client := New(server.URL, server.URL+"/token", "id", "secret")
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cat token error 400")
}

func TestNextPageNumber(t *testing.T) {
	t.Run("follows next link", func(t *testing.T) {
		page, ok := nextPageNumber([]fleetLink{
			{Rel: "Self", Href: "https://api.cat.com/telematics/iso15143/fleet/4"},
			{Rel: "Next", Href: "https://api.cat.com/telematics/iso15143/fleet/5"},
		})
		require.True(t, ok)
		assert.Equal(t, 5, page)
	})

	t.Run("no next link", func(t *testing.T) {
		_, ok := nextPageNumber([]fleetLink{{Rel: "Self", Href: "x"}})
		assert.False(t, ok)
	})

	t.Run("malformed href", func(t *testing.T) {
		_, ok := nextPageNumber([]fleetLink{{Rel: "Next", Href: "https://api.cat.com/fleet/abc"}})
		assert.False(t, ok)
	})
}
