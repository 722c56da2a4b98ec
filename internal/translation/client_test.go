package translation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	cache, _ := lru.New[string, string](cacheSize)
	return &Client{baseURL: baseURL, http: http.DefaultClient, cache: cache}
}

func TestTranslateReturnsSuggestion(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "cat", r.URL.Query().Get("q"))
		assert.Equal(t, "en|ru", r.URL.Query().Get("langpair"))
		w.Write([]byte(`{"responseData":{"translatedText":"кот"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.Equal(t, "кот", client.Translate(" Cat "))

	// Second lookup is served from the cache.
	assert.Equal(t, "кот", client.Translate("cat"))
	assert.Equal(t, 1, requests)
}

func TestTranslateFailuresAreEmpty(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"echoed input", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"responseData":{"translatedText":"cat"}}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()
			client := newTestClient(server.URL)
			assert.Equal(t, "", client.Translate("cat"))
		})
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	require.Equal(t, "", client.Translate("   "))
}
