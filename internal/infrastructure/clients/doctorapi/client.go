package doctorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// Client fetches the doctor listing.
type Client interface {
	ListDoctors(ctx context.Context) ([]entities.Doctor, error)
}

// HTTPClient reads the listing from a static JSON endpoint.
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the listing at url. A zero timeout means
// requests are only bounded by their context.
func NewClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListDoctors performs a single GET and normalizes every record. Transport
// errors, non-2xx statuses and a body that is not a JSON array are reported
// as external errors; there is no retry.
func (c *HTTPClient) ListDoctors(ctx context.Context) ([]entities.Doctor, error) {
	var records []DoctorRecord
	if err := c.doJSON(ctx, &records); err != nil {
		return nil, apperrors.NewExternalError("failed to fetch doctor data", err)
	}

	doctors := make([]entities.Doctor, 0, len(records))
	for _, record := range records {
		doctors = append(doctors, record.ToDoctor())
	}
	return doctors, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("doctor api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode doctor listing: %w", err)
	}

	return nil
}
