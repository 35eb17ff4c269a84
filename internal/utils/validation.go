package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// Bluebikes short names are letters and digits; dots, hyphens and
// underscores show up in test and legacy ids.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

const (
	MaxViewportDimension = 8192
	MaxListLimit         = 1000
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateZoom checks zoom against the map's configured bounds.
func ValidateZoom(zoom, minZoom, maxZoom float64) error {
	if math.IsNaN(zoom) || zoom < minZoom || zoom > maxZoom {
		return fmt.Errorf("zoom must be between %g and %g", minZoom, maxZoom)
	}
	return nil
}

// ValidateDimension validates a viewport width or height in pixels.
func ValidateDimension(px int) error {
	if px <= 0 {
		return errors.New("dimension must be positive")
	}
	if px > MaxViewportDimension {
		return fmt.Errorf("dimension too large (max %d pixels)", MaxViewportDimension)
	}
	return nil
}

// ValidateLimit validates the maximum number of list entries requested.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	if limit > MaxListLimit {
		return fmt.Errorf("limit too large (max %d)", MaxListLimit)
	}
	return nil
}

// ValidateViewParams validates a complete map view and collects the problems per field.
func ValidateViewParams(lon, lat, zoom float64, width, height int, minZoom, maxZoom float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateZoom(zoom, minZoom, maxZoom); err != nil {
		fieldErrors["zoom"] = append(fieldErrors["zoom"], err.Error())
	}

	if err := ValidateDimension(width); err != nil {
		fieldErrors["width"] = append(fieldErrors["width"], err.Error())
	}

	if err := ValidateDimension(height); err != nil {
		fieldErrors["height"] = append(fieldErrors["height"], err.Error())
	}

	return fieldErrors
}
