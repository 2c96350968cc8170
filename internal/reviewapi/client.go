package reviewapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"reviewbot/internal/config"
	"reviewbot/internal/homework"
	"reviewbot/internal/logging"
)

const (
	ErrorFetchingStatuses = "error fetching homework statuses"

	queryFromDate = "from_date"
	retryWait     = 2 * time.Second
)

// Client queries the homework statuses endpoint.
type Client struct {
	http     *resty.Client
	endpoint string
	token    string
	logger   *slog.Logger
}

// New builds a client from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return NewWithClient(resty.New(), cfg, logger)
}

// NewWithClient configures the supplied resty client, which lets tests attach
// an httpmock transport before use.
func NewWithClient(client *resty.Client, cfg *config.Config, logger *slog.Logger) *Client {
	client.
		SetTimeout(cfg.ReviewAPITimeout()).
		SetRetryCount(cfg.ReviewAPI.RetryCount).
		SetRetryWaitTime(retryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r != nil && r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")
	return &Client{
		http:     client,
		endpoint: cfg.ReviewAPI.Endpoint,
		token:    cfg.ReviewAPI.Token,
		logger:   logging.Named(logger, "reviewapi"),
	}
}

// Fetch requests statuses updated since from (unix seconds). A 200 response
// whose body is not valid JSON is treated as an empty list.
func (c *Client) Fetch(ctx context.Context, from int64) (any, error) {
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("GET", logging.String("url", c.endpoint), logging.Int64(queryFromDate, from))

	response, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "OAuth "+c.token).
		SetQueryParam(queryFromDate, strconv.FormatInt(from, 10)).
		Get(c.endpoint)
	if err != nil {
		return nil, errors.WithMessage(homework.Wrap(homework.ErrRemoteRequest, "fetch", "transport failure", err), ErrorFetchingStatuses)
	}
	if response == nil {
		return nil, homework.Wrap(homework.ErrRemoteRequest, "fetch", "response is nil", nil)
	}

	statusCode := response.StatusCode()
	switch {
	case statusCode >= http.StatusInternalServerError:
		return nil, homework.Wrap(homework.ErrRemoteServer, "fetch", fmt.Sprintf("response status code: %d", statusCode), nil)
	case statusCode != http.StatusOK:
		return nil, homework.Wrap(homework.ErrRemoteRequest, "fetch", fmt.Sprintf("response status code: %d", statusCode), nil)
	}

	var payload any
	if err := json.Unmarshal(response.Body(), &payload); err != nil {
		logging.WarnWithContext(logger, "review api returned undecodable body; treating as empty", "response_undecodable",
			logging.Error(err),
			logging.Int("body_bytes", len(response.Body())),
			logging.String(logging.FieldImpact, "this cycle reports no change"),
		)
		return EmptyPayload(), nil
	}
	logger.Debug("review api response", logging.Int("status_code", statusCode), logging.Duration("elapsed", response.Time()))
	return payload, nil
}

// EmptyPayload is the payload substituted for an undecodable body.
func EmptyPayload() map[string]any {
	return map[string]any{homework.KeyHomeworks: []any{}}
}
