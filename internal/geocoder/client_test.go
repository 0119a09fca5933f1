package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Suggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/suggest/address", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))

		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Тюмень, Широтная 105", req.Query)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"suggestions": [
				{
					"value": "г Тюмень, ул Широтная, д 105",
					"data": {
						"region_kladr_id": "7200000000000",
						"city": "Тюмень",
						"street": "Широтная",
						"house": "105"
					}
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key")
	suggestions, err := c.Suggest(context.Background(), "Тюмень, Широтная 105")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	data := suggestions[0].Data
	require.NotNil(t, data)
	assert.Equal(t, "72", data.RegionCode())
	assert.Equal(t, "Тюмень", data.City)
	assert.Equal(t, "Широтная", data.Street)
}

func TestHTTPClient_Suggest_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"suggestions": []}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	suggestions, err := c.Suggest(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestHTTPClient_Suggest_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.Suggest(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestAddress_RegionCode(t *testing.T) {
	tests := []struct {
		name string
		addr *Address
		want string
	}{
		{"full kladr id", &Address{RegionKladrID: "7200000000000"}, "72"},
		{"short id", &Address{RegionKladrID: "7"}, ""},
		{"empty", &Address{}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.RegionCode())
		})
	}
}
