package checks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	health "github.com/hirenkeraliya/go-health"
)

// HTTPCheckConfig configures a check for the response from a given URL.
// The only required field is `URL`, which must be a valid URL.
type HTTPCheckConfig struct {
	// CheckName is the health check name; defaults to "HTTP".
	CheckName string
	// URL is required valid URL, to be called by the check
	URL string
	// Method is the HTTP method to use for this check.
	// Method is optional and defaults to `GET` if undefined.
	Method string
	// Body is an optional request body to be posted to the target URL.
	Body string
	// ExpectedStatus is the expected response status code, defaults to `200`.
	ExpectedStatus int
	// ExpectedBody is optional; if defined, operates as a basic "body should contain <string>".
	ExpectedBody string
	// Client is optional; if undefined, a new client will be created using "Timeout".
	Client *http.Client
	// Timeout is the timeout used for the HTTP request, defaults to "1s".
	Timeout time.Duration
}

// HTTPCheck fails when the URL cannot be fetched, answers with an unexpected status or lacks the expected body.
type HTTPCheck struct {
	*health.Gate
	config *HTTPCheckConfig
}

var _ health.Check = (*HTTPCheck)(nil)

// NewHTTPCheck creates a new http check defined by the given config
func NewHTTPCheck(config *HTTPCheckConfig) (*HTTPCheck, error) {
	if config == nil {
		return nil, errors.Errorf("config must not be nil")
	}
	if config.URL == "" {
		return nil, errors.Errorf("URL must not be empty")
	}
	if _, err := url.Parse(config.URL); err != nil {
		return nil, errors.WithStack(err)
	}

	fullConfig := *config
	if fullConfig.ExpectedStatus == 0 {
		fullConfig.ExpectedStatus = http.StatusOK
	}
	if fullConfig.Method == "" {
		fullConfig.Method = http.MethodGet
	}
	if fullConfig.Timeout == 0 {
		fullConfig.Timeout = time.Second
	}
	if fullConfig.Client == nil {
		fullConfig.Client = &http.Client{}
	}

	check := &HTTPCheck{config: &fullConfig}
	check.Gate = health.NewGate(check)
	if config.CheckName != "" {
		check.SetName(config.CheckName)
	}

	return check, nil
}

func (check *HTTPCheck) Run(ctx context.Context) health.Result {
	meta := map[string]interface{}{"url": check.config.URL}

	resp, err := check.fetchURL(ctx)
	if err != nil {
		return health.Failed(err.Error()).WithSummary("unreachable").WithMeta(meta)
	}
	defer resp.Body.Close()

	meta["status_code"] = resp.StatusCode
	if resp.StatusCode != check.config.ExpectedStatus {
		return health.Failed(fmt.Sprintf("unexpected status code: '%v' expected: '%v'",
			resp.StatusCode, check.config.ExpectedStatus)).WithSummary(resp.Status).WithMeta(meta)
	}

	if check.config.ExpectedBody != "" {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return health.Failed(fmt.Sprintf("failed to read response body: %v", err)).WithMeta(meta)
		}

		if !strings.Contains(string(body), check.config.ExpectedBody) {
			return health.Failed(fmt.Sprintf("body does not contain expected content '%v'", check.config.ExpectedBody)).
				WithMeta(meta)
		}
	}

	return health.OK(fmt.Sprintf("URL [%s] is accessible", check.config.URL)).WithSummary(resp.Status).WithMeta(meta)
}

// fetchURL executes the HTTP request to the target URL, and returns a `http.Response`, error.
// It is the callers responsibility to close the response body
func (check *HTTPCheck) fetchURL(ctx context.Context) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, check.config.Timeout)
	// the body is read after returning; cancel once it is closed
	var body io.Reader
	if check.config.Body != "" {
		body = strings.NewReader(check.config.Body)
	}

	req, err := http.NewRequestWithContext(ctx, check.config.Method, check.config.URL, body)
	if err != nil {
		cancel()
		return nil, errors.Errorf("unable to create check HTTP request: %v", err)
	}

	resp, err := check.config.Client.Do(req)
	if err != nil {
		cancel()
		return nil, errors.Errorf("fail to execute '%v' request: %v", check.config.Method, err)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
