package translation

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultAPIURL is the free MyMemory endpoint used when no override is
// configured.
const DefaultAPIURL = "https://api.mymemory.translated.net/get"

const cacheSize = 512

// Client suggests Russian translations for English words. Lookups are
// best-effort: any network or decode problem yields an empty suggestion
// and the user types the translation by hand.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *lru.Cache[string, string]
}

// New creates a client, reading TRANSLATE_API_URL if set.
func New() *Client {
	baseURL := os.Getenv("TRANSLATE_API_URL")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	cache, _ := lru.New[string, string](cacheSize)
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

// Translate returns a suggested Russian translation or "" when none is
// available.
func (c *Client) Translate(word string) string {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return ""
	}
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		log.Printf("Translation: bad API URL %q: %v", c.baseURL, err)
		return ""
	}
	query := endpoint.Query()
	query.Set("q", key)
	query.Set("langpair", "en|ru")
	endpoint.RawQuery = query.Encode()

	resp, err := c.http.Get(endpoint.String())
	if err != nil {
		log.Printf("Translation: lookup for %q failed: %v", key, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("Translation: lookup for %q returned status %d", key, resp.StatusCode)
		return ""
	}

	var payload struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("Translation: failed to decode response for %q: %v", key, err)
		return ""
	}

	translated := strings.TrimSpace(payload.ResponseData.TranslatedText)
	// Сервис иногда возвращает исходное слово вместо перевода
	if translated == "" || strings.EqualFold(translated, key) {
		return ""
	}
	c.cache.Add(key, translated)
	return translated
}
