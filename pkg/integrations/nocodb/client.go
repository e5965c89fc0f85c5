package nocodb

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcptools/pkg/cache"
	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/integrations"
)

// DefaultTimeout bounds every NocoDB request.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings of a NocoDB instance.
type Config struct {
	URL      string        // instance root, e.g. https://app.nocodb.com
	Token    string        // API token, sent as xc-token
	Timeout  time.Duration // per request; default DefaultTimeout
	TableTTL time.Duration // lifetime of cached table ids; default cache.TTLTable
}

// Validate reports whether the configuration can reach an instance.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "nocodb url")
	}
	if strings.TrimSpace(c.Token) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "nocodb token is required")
	}
	return nil
}

// Client talks to one NocoDB instance. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
	logger  *log.Logger
}

// NewClient creates a client for cfg. Resolved table ids are stored in c
// (nil disables caching) under keys scoped by the instance host, so one
// shared cache can serve several instances.
func NewClient(cfg Config, c cache.Cache, logger *log.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TableTTL <= 0 {
		cfg.TableTTL = cache.TTLTable
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if c == nil {
		c = cache.NewNullCache()
	}

	headers := map[string]string{
		"xc-token":     cfg.Token,
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	base := integrations.NewClient(cache.Instrument(c, "table"), "", cfg.TableTTL, headers)
	base.SetTimeout(cfg.Timeout)

	return &Client{
		Client:  base,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		keyer:   cache.NewScopedKeyer(cache.NewDefaultKeyer(), integrations.Host(cfg.URL)+":"),
		logger:  logger,
	}, nil
}

// BaseURL returns the instance root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) metaURL(segments ...string) string {
	return integrations.JoinURL(c.baseURL, append([]string{"api", "v2", "meta"}, segments...)...)
}

func (c *Client) dataURL(baseID, tableID string, segments ...string) string {
	return integrations.JoinURL(c.baseURL, append([]string{"api", "v3", "data", baseID, tableID}, segments...)...)
}

// call sends one request and maps failures to structured errors for op.
func (c *Client) call(ctx context.Context, op string, req integrations.Request, v any) (int, error) {
	status, err := c.Do(ctx, req, v)
	if err != nil {
		c.logger.Debug("nocodb request failed", "op", op, "method", req.Method, "url", req.URL, "status", status, "error", err)
		return status, apiError(op, err)
	}
	return status, nil
}

// apiError maps a failed request to a structured error whose message names
// the operation.
func apiError(op string, err error) error {
	var se *integrations.StatusError
	if stderrors.As(err, &se) {
		body := strings.ToLower(se.Body)
		switch {
		case se.StatusCode == http.StatusNotFound && strings.Contains(body, "table"):
			return errors.Wrap(errors.ErrCodeTableNotFound, err, "Table not found during %s", op)
		case se.StatusCode == http.StatusNotFound && strings.Contains(body, "base"):
			return errors.Wrap(errors.ErrCodeBaseNotFound, err, "Base not found during %s", op)
		case se.StatusCode == http.StatusNotFound:
			return errors.Wrap(errors.ErrCodeNotFound, err, "Resource not found during %s: %s", op, se.Body)
		case se.StatusCode == http.StatusBadRequest:
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "Invalid request during %s: %s", op, se.Body)
		case se.StatusCode == http.StatusUnauthorized:
			return errors.Wrap(errors.ErrCodeUnauthorized, err, "Authentication failed during %s", op)
		case se.StatusCode == http.StatusForbidden:
			return errors.Wrap(errors.ErrCodeForbidden, err, "Permission denied during %s", op)
		case se.StatusCode == http.StatusTooManyRequests:
			return errors.Wrap(errors.ErrCodeRateLimited, err, "Rate limited during %s, retry after %ds", op, se.RetryAfter)
		case se.StatusCode >= 500:
			return errors.Wrap(errors.ErrCodeNetwork, err, "API error during %s: HTTP %d - %s", op, se.StatusCode, se.Body)
		default:
			return errors.Wrap(errors.ErrCodeAPI, err, "API error during %s: HTTP %d - %s", op, se.StatusCode, se.Body)
		}
	}
	if errors.GetCode(err) != "" {
		return err
	}
	if stderrors.Is(err, integrations.ErrNetwork) {
		return errors.Wrap(errors.ErrCodeNetwork, err, "Network error during %s", op)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "Unexpected error during %s", op)
}
