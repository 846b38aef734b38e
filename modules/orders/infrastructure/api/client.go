package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/configuration"
)

const (
	ordersPath   = "/service_orders"
	requestsPath = "/service_requests"
	authHeader   = "X-Auth-Token"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrActionFailed     = errors.New("action failed")
	ErrInvalidBaseURL   = errors.New("invalid base url")
)

var tracer = otel.Tracer("order-explorer-api")

// APIError is the error body returned by the order service.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status=%d kind=%s: %s", e.Status, e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrUnexpectedStatus
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithToken(token string) Option {
	return func(client *Client) {
		client.token = strings.TrimSpace(token)
	}
}

// WithBaseFilter sets the filter expression sent with every query.
func WithBaseFilter(filter string) Option {
	return func(client *Client) {
		client.baseFilter = filter
	}
}

func WithRequestIDHeader(header string) Option {
	return func(client *Client) {
		client.requestIDHeader = header
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(client *Client) {
		client.log = log.WithField("component", "orders-api")
	}
}

// Client talks to the remote order data service. It implements
// order.Repository.
type Client struct {
	baseURL         *url.URL
	token           string
	baseFilter      string
	requestIDHeader string
	httpClient      *http.Client
	log             *logrus.Entry
}

var _ order.Repository = (*Client)(nil)

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidBaseURL, "%q", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logrus.StandardLogger().WithField("component", "orders-api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a client from the ORDERS_API_* settings.
func NewFromConfig(conf *configuration.Configuration) (*Client, error) {
	opts := []Option{
		WithHTTPClient(&http.Client{Timeout: conf.API.Timeout}),
		WithToken(conf.API.Token),
		WithBaseFilter(conf.API.BaseFilter),
		WithRequestIDHeader(conf.RequestIDHeader),
	}
	if log := conf.Logger(); log != nil {
		opts = append(opts, WithLogger(log))
	}
	return NewClient(conf.API.URL, opts...)
}

func (c *Client) List(ctx context.Context, params *order.FindParams) (*order.Page, error) {
	ctx, span := tracer.Start(ctx, "orders.api.List", trace.WithAttributes(
		attribute.Int("orders.limit", params.Limit),
		attribute.Int("orders.offset", params.Offset),
		attribute.Int("orders.filters", len(params.Filters)),
	))
	defer span.End()

	q := url.Values{}
	q.Set("expand", "resources")
	q.Set("attributes", "service_requests")
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("offset", strconv.Itoa(params.Offset))
	exprs, ignored := toFilterExpressions(c.baseFilter, params.Filters)
	for _, f := range exprs {
		q.Add("filter[]", f)
	}
	if params.SortField.ID != "" {
		q.Set("sort_by", params.SortField.ID)
		if params.Ascending {
			q.Set("sort_order", "asc")
		} else {
			q.Set("sort_order", "desc")
		}
		if params.SortField.SortType == "alpha" {
			q.Set("sort_options", "ignore_case")
		}
	}

	var out collectionModel
	if err := c.doJSON(ctx, http.MethodGet, ordersPath, q, nil, &out); err != nil {
		recordSpanError(span, err)
		return nil, errors.Wrap(err, "list service orders")
	}
	page := toDomainPage(out, c.log)
	page.IgnoredFilters = ignored
	if len(ignored) > 0 {
		c.log.WithField("filters", ignored).Warn("filters not supported by the service were not sent")
	}
	span.SetAttributes(attribute.Int("orders.resources", len(page.Resources)))
	return page, nil
}

func (c *Client) Count(ctx context.Context, filters []order.Filter) (int64, error) {
	ctx, span := tracer.Start(ctx, "orders.api.Count")
	defer span.End()

	q := url.Values{}
	q.Set("hide", "resources")
	exprs, _ := toFilterExpressions(c.baseFilter, filters)
	for _, f := range exprs {
		q.Add("filter[]", f)
	}

	var out collectionModel
	if err := c.doJSON(ctx, http.MethodGet, ordersPath, q, nil, &out); err != nil {
		recordSpanError(span, err)
		return 0, errors.Wrap(err, "count service orders")
	}
	return out.Subcount, nil
}

// Process approves or denies service requests in one bulk call.
func (c *Client) Process(ctx context.Context, action order.Action, requests []order.ID, reason string) error {
	ctx, span := tracer.Start(ctx, "orders.api.Process", trace.WithAttributes(
		attribute.String("orders.action", string(action)),
		attribute.Int("orders.requests", len(requests)),
	))
	defer span.End()

	if len(requests) == 0 {
		return nil
	}

	var out actionResponseModel
	if err := c.doJSON(ctx, http.MethodPost, requestsPath, nil, toActionRequest(action, requests, reason), &out); err != nil {
		recordSpanError(span, err)
		return errors.Wrapf(err, "%s service requests", action)
	}

	var failed []string
	for _, r := range out.Results {
		if !r.Success {
			failed = append(failed, r.Message)
		}
	}
	if len(failed) > 0 {
		err := errors.Wrap(ErrActionFailed, strings.Join(failed, "; "))
		recordSpanError(span, err)
		return err
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
	if c.token != "" {
		req.Header.Set(authHeader, c.token)
	}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(req.Header))

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request-id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return errors.Wrap(err, "do request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorModel
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return &APIError{Status: resp.StatusCode, Kind: apiErr.Error.Kind, Message: apiErr.Error.Message}
		}
		return errors.Wrapf(ErrUnexpectedStatus, "status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
