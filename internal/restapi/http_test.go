package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"bikeflow.bluebikes.org/internal/app"
	"bikeflow.bluebikes.org/internal/appconf"
	"bikeflow.bluebikes.org/internal/bikeshare"
	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
)

// createTestApi creates a RestAPI backed by the fixture datasets.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	bikeshareConfig := bikeshare.Config{
		StationsURL: models.GetFixturePath(t, "bluebikes-stations.json"),
		TripsURL:    models.GetFixturePath(t, "bluebikes-trips.csv"),
		TimeZone:    bikeshare.DefaultTimeZone,
		TripDBPath:  ":memory:",
		Env:         appconf.Test,
	}
	manager, err := bikeshare.InitManager(context.Background(), bikeshareConfig)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:     appconf.EnvFlagToEnvironment("test"),
			ApiKeys: []string{"TEST"},
			Map:     appconf.DefaultMapConfig(),
		},
		BikeshareConfig:  bikeshareConfig,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		BikeshareManager: manager,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Close)
	return api
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.Handler(router))
	t.Cleanup(server.Close)
	return server
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.CloseLogged(slog.Default().With(slog.String("component", "test")),
		"http_response_body", resp.Body)

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// fieldErrorsFrom requests endpoint and decodes a validation error body.
func fieldErrorsFrom(t *testing.T, api *RestAPI, endpoint string) (*http.Response, map[string][]string) {
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body.FieldErrors
}
