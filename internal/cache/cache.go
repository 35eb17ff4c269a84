// Package cache stores aggregated station traffic per dataset version and time filter.
package cache

import (
	"context"
	"fmt"

	"bikeflow.bluebikes.org/internal/models"
)

// TrafficCache holds aggregation results. Get reports ok=false on a miss.
type TrafficCache interface {
	Get(ctx context.Context, key string) (models.StationTrafficList, bool, error)
	Set(ctx context.Context, key string, traffic models.StationTrafficList) error
	Close() error
}

// TrafficKey names one aggregation: the dataset version it was computed from
// and the time filter applied.
func TrafficKey(version uint64, filter models.TimeFilter) string {
	return fmt.Sprintf("traffic:%d:%d", version, int(filter))
}
