package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"nurse-triage-backend/internal/model"
)

// vitalsResponse models the backend's vitals payload.
type vitalsResponse struct {
	HR         int        `json:"hr"`
	BP         string     `json:"bp"`
	Temp       float64    `json:"temp"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// HTTP fetches vitals from GET {base}/api/patient/{id}/vitals.
type HTTP struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewHTTP creates an HTTP source. An invalid proxy URL is ignored with a warning.
func NewHTTP(baseURL, proxy string, timeout time.Duration, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	var transport http.RoundTripper = &http.Transport{}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			logger.Warn("invalid proxy URL, vitals source will not use a proxy",
				zap.String("proxy", proxy), zap.Error(err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		now: time.Now,
	}
}

// Fetch implements VitalsSource.
func (h *HTTP) Fetch(ctx context.Context, patientID string) (model.VitalsReading, error) {
	r, err := h.fetch(ctx, patientID)
	if err != nil {
		return model.VitalsReading{}, &NetworkError{PatientID: patientID, Err: err}
	}
	return r, nil
}

func (h *HTTP) fetch(ctx context.Context, patientID string) (model.VitalsReading, error) {
	endpoint := fmt.Sprintf("%s/api/patient/%s/vitals", h.baseURL, url.PathEscape(patientID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.VitalsReading{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return model.VitalsReading{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.VitalsReading{}, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.VitalsReading{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var vr vitalsResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return model.VitalsReading{}, fmt.Errorf("failed to unmarshal vitals response: %w", err)
	}

	observed := h.now()
	if vr.RecordedAt != nil {
		observed = *vr.RecordedAt
	}
	return model.VitalsReading{
		HeartRate:     vr.HR,
		BloodPressure: vr.BP,
		Temperature:   vr.Temp,
		ObservedAt:    observed,
	}, nil
}
