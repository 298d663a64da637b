package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	health "github.com/hirenkeraliya/go-health"
	"github.com/hirenkeraliya/go-health/checks"
)

// configurable is satisfied by every check embedding a *health.Gate.
type configurable interface {
	health.Check
	SetName(name string) *health.Gate
	SetLabel(label string) *health.Gate
	Cron(expression string) *health.Gate
	If(c health.Condition) *health.Gate
	Err() error
}

// Build turns the described checks into runnable ones, in file order.
// Every broken definition is reported; the error lists all of them.
func (f *File) Build() ([]health.Check, error) {
	var (
		built  []health.Check
		result *multierror.Error
	)
	for i, c := range f.Checks {
		check, err := c.build()
		if err != nil {
			result = multierror.Append(result, errors.WithMessage(err, c.describe(i)))
			continue
		}
		built = append(built, check)
	}

	return built, result.ErrorOrNil()
}

func (c Check) build() (health.Check, error) {
	var (
		check configurable
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case TypeHTTP:
		check, err = c.buildHTTP()
	case TypePing:
		check, err = c.buildPing()
	case TypeResolve:
		check, err = c.buildResolve()
	default:
		return nil, errors.Errorf("unknown check type %q", c.Type)
	}
	if err != nil {
		return nil, err
	}

	if c.Name != "" {
		check.SetName(c.Name)
	}
	if c.Label != "" {
		check.SetLabel(c.Label)
	}
	if c.Schedule != "" {
		check.Cron(c.Schedule)
	}
	if c.Enabled != nil {
		check.If(health.Fixed(*c.Enabled))
	}
	if err := check.Err(); err != nil {
		return nil, err
	}

	return check, nil
}

func (c Check) buildHTTP() (configurable, error) {
	timeout, err := parseDuration("timeout", c.Timeout)
	if err != nil {
		return nil, err
	}

	return checks.NewHTTPCheck(&checks.HTTPCheckConfig{
		URL:            c.URL,
		Method:         c.Method,
		Body:           c.Body,
		ExpectedStatus: c.ExpectedStatus,
		ExpectedBody:   c.ExpectedBody,
		Timeout:        timeout,
	})
}

func (c Check) buildPing() (configurable, error) {
	if c.Address == "" {
		return nil, errors.New("address must not be empty")
	}
	network := c.Network
	if network == "" {
		network = "tcp"
	}

	return checks.NewPingCheck(c.Name, checks.NewDialPinger(network, c.Address))
}

func (c Check) buildResolve() (configurable, error) {
	if c.Host == "" {
		return nil, errors.New("host must not be empty")
	}
	minResults := c.MinResults
	if minResults <= 0 {
		minResults = 1
	}

	return checks.NewHostResolveCheck(c.Host, minResults), nil
}

func (c Check) describe(i int) string {
	if c.Name != "" {
		return fmt.Sprintf("checks[%d] (%s)", i, c.Name)
	}

	return fmt.Sprintf("checks[%d]", i)
}
