package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
)

const (
	// AuditLogsEndpoint is the audit service path for new records
	AuditLogsEndpoint = "/api/audit-logs"
	// DefaultHTTPTimeout bounds each delivery attempt
	DefaultHTTPTimeout = 10 * time.Second
)

// Client posts audit events to an audit service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	enabled    bool
	inflight   sync.WaitGroup
}

// NewClient creates an HTTP audit client. It is disabled when baseURL is empty
// or ENABLE_AUDIT is false; a disabled client drops every event.
func NewClient(baseURL string) *Client {
	if baseURL == "" || !utils.GetEnvBoolOrDefault("ENABLE_AUDIT", true) {
		slog.Info("Audit client disabled", "reason", "ENABLE_AUDIT=false or AUDIT_SERVICE_URL not configured")
		return &Client{}
	}

	slog.Info("Audit client initialized", "baseURL", baseURL)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
		enabled: true,
	}
}

// IsEnabled returns whether the audit client is enabled
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// LogEvent delivers event in the background. The caller's context is not used
// for delivery so a finished request does not cancel its audit record.
func (c *Client) LogEvent(_ context.Context, event *AuditLogRequest) {
	if !c.enabled || c.httpClient == nil {
		return
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		start := time.Now()
		err := c.send(context.Background(), event)
		monitoring.RecordExternalCall("audit-service", "create_audit_log", time.Since(start), err)
		if err != nil {
			slog.Error("Failed to deliver audit event", "error", err, "eventAction", event.EventAction, "targetType", event.TargetType)
		}
	}()
}

// Wait blocks until every in-flight delivery has finished
func (c *Client) Wait() {
	c.inflight.Wait()
}

func (c *Client) send(ctx context.Context, event *AuditLogRequest) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit request: %w", err)
	}

	endpointURL, err := url.JoinPath(c.baseURL, AuditLogsEndpoint)
	if err != nil {
		return fmt.Errorf("failed to construct audit service URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send audit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("audit service returned status %d: %s", resp.StatusCode, string(body))
	}

	slog.Debug("Audit event logged", "eventAction", event.EventAction, "targetType", event.TargetType, "actorId", event.ActorID)
	return nil
}
