package webui

import "bikeflow.bluebikes.org/internal/app"

// WebUI serves the operator-facing debug pages.
type WebUI struct {
	*app.Application
}

func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}
