package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	yaml "go.yaml.in/yaml/v3"
)

// Check types understood by Build.
const (
	TypeHTTP    = "http"
	TypePing    = "ping"
	TypeResolve = "resolve"
)

// File is the on-disk description of a set of checks.
type File struct {
	// ExecutionTimeout bounds every check run, e.g. "5s". Empty means no timeout.
	ExecutionTimeout string  `yaml:"execution_timeout"`
	Checks           []Check `yaml:"checks"`
}

// Check describes a single check. Which fields apply depends on Type.
type Check struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	// Schedule is a 5-field cron expression; defaults to every minute.
	Schedule string `yaml:"schedule"`
	// Enabled set to false keeps the check registered but never due.
	Enabled *bool `yaml:"enabled"`

	// http
	URL            string `yaml:"url"`
	Method         string `yaml:"method"`
	Body           string `yaml:"body"`
	ExpectedStatus int    `yaml:"expected_status"`
	ExpectedBody   string `yaml:"expected_body"`
	Timeout        string `yaml:"timeout"`

	// ping
	Network string `yaml:"network"`
	Address string `yaml:"address"`

	// resolve
	Host       string `yaml:"host"`
	MinResults int    `yaml:"min_results"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "config %s", path)
	}

	return f, nil
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(f); err != nil {
		return nil, errors.Wrap(err, "yaml unmarshal")
	}

	return f, nil
}

// Timeout returns the parsed ExecutionTimeout.
func (f *File) Timeout() (time.Duration, error) {
	return parseDuration("execution_timeout", f.ExecutionTimeout)
}

func parseDuration(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: invalid duration %q", path, raw)
	}
	if d < 0 {
		return 0, errors.Errorf("%s: duration must be >= 0", path)
	}

	return d, nil
}
