package utils

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"bikeflow.bluebikes.org/internal/models"
)

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns 0 and leaves fieldErrors alone; an
// unparsable or non-finite value is recorded in fieldErrors under key.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, fieldErrors
	}
	return f, fieldErrors
}

// ParseIntParam works like ParseFloatParam for integers, returning def when the key is absent.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseTimeFilterParam reads the slider value (minutes since midnight, or -1).
// A missing key means no filter.
func ParseTimeFilterParam(params url.Values, key string, fieldErrors map[string][]string) (models.TimeFilter, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	filter, err := models.ParseTimeFilter(params.Get(key))
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return models.NoFilter, fieldErrors
	}
	return filter, fieldErrors
}
