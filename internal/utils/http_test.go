package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestExtractIDFromParams(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "Basic ID",
			id:   "A32000",
			want: "A32000",
		},
		{
			name: "ID with JSON extension",
			id:   "M32006.json",
			want: "M32006",
		},
		{
			name: "ID with multiple dots",
			id:   "S32.1.json",
			want: "S32.1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()

			var result string
			router.HandlerFunc(http.MethodGet, "/api/where/station/:id", func(w http.ResponseWriter, r *http.Request) {
				result = ExtractIDFromParams(r, "id")
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/where/station/"+tc.id, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, result, "ExtractIDFromParams should correctly extract and clean the ID")
		})
	}

	t.Run("missing param yields empty string", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "", ExtractIDFromParams(req, "id"))
	})
}
