package app

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the key for clients that keep it out of URLs, such as
// the live map socket behind a logging proxy.
const APIKeyHeader = "X-API-Key"

// RequestAPIKey returns the key from the "key" query parameter, or from
// APIKeyHeader when the query has none.
func RequestAPIKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get(APIKeyHeader)
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(RequestAPIKey(r))
}

// IsInvalidAPIKey compares key against every configured key in constant time.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}

	matched := 0
	for _, validKey := range app.Config.ApiKeys {
		matched |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return matched == 0
}
