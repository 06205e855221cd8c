package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
)

type BillingClient struct {
	cfg    BillingConfig
	client *http.Client
}

var _ interfaces.PlanAssigner = (*BillingClient)(nil)

func NewBillingClient(cfg BillingConfig) *BillingClient {
	return &BillingClient{
		cfg,
		&http.Client{Timeout: cfg.timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			}},
	}
}

// AssignPlan posts the assignment payload. A decodable body is returned as is, including logical
// failures (success=false); transport errors and undecodable error statuses are returned as errors.
func (c *BillingClient) AssignPlan(ctx context.Context, req dto.AssignPlanRequest) (*dto.AssignPlanResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.getURL("/tenants/plan-assignments"), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if c.cfg.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.cfg.apiKey)
	}

	slog.Debug("assigning plan", "tenantID", req.TenantID, "planID", req.PlanID)
	resp, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("error calling billing api, %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading billing response, %w", err)
	}

	var result dto.AssignPlanResponse
	if err = json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("billing api responded with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("error decoding billing response, %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest && result.Success {
		// a success flag on an error status is not trusted
		result.Success = false
		if result.FailureMessage() == "" {
			result.Message = fmt.Sprintf("billing api responded with status %d", resp.StatusCode)
		}
	}

	return &result, nil
}

func (c *BillingClient) getURL(path string) string {
	return strings.TrimRight(c.cfg.baseURL, "/") + path
}
