package bikeshare

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

// fetchSource reads a dataset from a local path or an http(s) URL.
func fetchSource(ctx context.Context, client *http.Client, dataset, source string) ([]byte, error) {
	b, err := rawSource(ctx, client, source)
	if err != nil {
		fetchErrorCount.With(prometheus.Labels{"dataset": dataset}).Inc()
		return nil, err
	}
	fetchCount.With(prometheus.Labels{"dataset": dataset}).Inc()
	return b, nil
}

func rawSource(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if isLocalFile(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", source, err)
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch data from %s: HTTP %d", source, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return b, nil
}
