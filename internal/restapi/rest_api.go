package restapi

import (
	"net/http"
	"time"

	"bikeflow.bluebikes.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Close stops background work owned by the API.
func (api *RestAPI) Close() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}

func (api *RestAPI) limit(next http.Handler) http.Handler {
	if api.rateLimiter == nil {
		return next
	}
	return api.rateLimiter.Handler(next)
}
