// Package backend is the HTTP client for the contract-management backend's report endpoints.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/pkg/logger"
	"github.com/okian/pactum/pkg/metrics"
)

// Report endpoint paths, relative to the base URL.
const (
	PathPenalties          = "/api/reports/penalties"
	PathDueDeliverables    = "/api/reports/due-deliverables"
	PathContracts          = "/api/contracts"
	PathAlerts             = "/api/alerts"
	PathAlertsCheck        = "/api/alerts/test"
	PathContractStatus     = "/api/reports/contract-status"
	PathDeliveriesSupplier = "/api/reports/deliveries-by-supplier"
	PathDeliveriesOrgUnit  = "/api/reports/deliveries-by-orgunit"
)

const maxErrorBody = 512

// Client reads reports from the backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     logger.Logger
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Penalties fetches the penalties report.
func (c *Client) Penalties(ctx context.Context) ([]model.PenaltyRecord, error) {
	return getList[model.PenaltyRecord](ctx, c, PathPenalties)
}

// DueDeliverables fetches the overdue deliverables report.
func (c *Client) DueDeliverables(ctx context.Context) ([]model.OverdueDeliverableRecord, error) {
	return getList[model.OverdueDeliverableRecord](ctx, c, PathDueDeliverables)
}

// Contracts fetches the contract directory.
func (c *Client) Contracts(ctx context.Context) ([]model.ContractRecord, error) {
	return getList[model.ContractRecord](ctx, c, PathContracts)
}

// ContractDetails fetches one contract with its obligations. An unknown id
// yields an error matching ErrNotFound.
func (c *Client) ContractDetails(ctx context.Context, id string) (model.ContractDetails, error) {
	if strings.TrimSpace(id) == "" {
		return model.ContractDetails{}, fmt.Errorf("contract details: %w", ErrNotFound)
	}
	return getObject[model.ContractDetails](ctx, c, PathContracts+"/"+url.PathEscape(id))
}

// Alerts fetches the deadline alerts.
func (c *Client) Alerts(ctx context.Context) ([]model.AlertRecord, error) {
	return getList[model.AlertRecord](ctx, c, PathAlerts)
}

// TriggerAlertCheck asks the backend to run its deadline check now.
func (c *Client) TriggerAlertCheck(ctx context.Context) error {
	_, err := c.get(ctx, PathAlertsCheck)
	return err
}

// ContractStatus fetches the contract status distribution.
func (c *Client) ContractStatus(ctx context.Context) (model.ContractStatusReport, error) {
	return getObject[model.ContractStatusReport](ctx, c, PathContractStatus)
}

// DeliveriesBySupplier fetches deliveries grouped by supplier.
func (c *Client) DeliveriesBySupplier(ctx context.Context) ([]model.SupplierDeliveries, error) {
	return getList[model.SupplierDeliveries](ctx, c, PathDeliveriesSupplier)
}

// DeliveriesByOrgUnit fetches deliveries grouped by org unit.
func (c *Client) DeliveriesByOrgUnit(ctx context.Context) ([]model.OrgUnitDeliveries, error) {
	return getList[model.OrgUnitDeliveries](ctx, c, PathDeliveriesOrgUnit)
}

// getList reads a JSON array and decodes every element on its own. A malformed
// element keeps the fields that did decode and is logged; only a body that is
// not an array makes the report unavailable.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnavailable, path, err)
	}
	out := make([]T, 0, len(raw))
	for i, elem := range raw {
		var rec T
		if err := decodeRecord(elem, &rec); err != nil {
			c.malformed(ctx, path, i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// getObject reads a single JSON object with the same field-level tolerance as getList.
func getObject[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	body, err := c.get(ctx, path)
	if err != nil {
		return out, err
	}
	if err := decodeRecord(body, &out); err != nil {
		if errors.Is(err, errNotObject) {
			return out, fmt.Errorf("%w: decode %s: %w", ErrUnavailable, path, err)
		}
		c.malformed(ctx, path, 0, err)
	}
	return out, nil
}

func (c *Client) malformed(ctx context.Context, path string, index int, err error) {
	metrics.RecordErrorByComponent("backend", "malformed_record")
	c.log.Warn(ctx, "malformed backend record",
		logger.String("path", path),
		logger.Int("index", index),
		logger.Error(err))
}

var errNotObject = errors.New("not a JSON object")

// decodeRecord decodes data into dst. When the strict decode fails it retries
// field by field, so one bad value only loses that field. The strict error is returned.
func decodeRecord(data []byte, dst any) error {
	err := json.Unmarshal(data, dst)
	if err == nil {
		return nil
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil {
		return fmt.Errorf("%w: %w", errNotObject, err)
	}
	for name, value := range fields {
		one, merr := json.Marshal(map[string]json.RawMessage{name: value})
		if merr != nil {
			continue
		}
		_ = json.Unmarshal(one, dst)
	}
	return err
}

// get performs a GET and returns the body. Every failure wraps ErrUnavailable;
// a 404 also matches ErrNotFound.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", ErrUnavailable, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "backend request failed", logger.String("path", path), logger.Error(err))
		return nil, fmt.Errorf("%w: GET %s: %w", ErrUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn(ctx, "backend returned error status",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("body", strings.TrimSpace(string(body))))
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
	}
	return body, nil
}
