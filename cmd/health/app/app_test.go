package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 13, 37, 0, 0, time.UTC)

type report struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

func TestList(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "list", "--config", path)
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "up")
	assert.Contains(t, out, "Up")
	assert.Contains(t, out, "down")
	assert.Contains(t, out, "nightly")
	assert.Contains(t, out, "0 0 * * *")
	assert.Contains(t, out, "2026-10-16 00:00", "next run of the nightly check")
	assert.Contains(t, out, "2026-10-15 13:38", "next run of a check due every minute")
}

func TestRun_due(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "run", "--config", path)
	require.NoError(t, err, "failures do not fail the command by default")

	reports := decodeReports(t, out)
	require.Len(t, reports, 2, "the nightly check is not due")
	assert.Equal(t, report{Name: "up", Status: "ok", Summary: "reachable"}, reports[0])
	assert.Equal(t, "down", reports[1].Name)
	assert.Equal(t, "failed", reports[1].Status)
}

func TestRun_all(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "run", "--all", "--config", path)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 3)
	assert.Equal(t, "nightly", reports[2].Name)
	assert.Equal(t, "ok", reports[2].Status)
}

func TestRun_failOnFailure(t *testing.T) {
	path := writeConfig(t)

	_, err := execute(t, "run", "--fail-on-failure", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 checks failed")
}

func TestRun_missingConfig(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun_invalidLogLevel(t *testing.T) {
	path := writeConfig(t)

	_, err := execute(t, "run", "--log-level", "loud", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRun_skipsBrokenDefinitions(t *testing.T) {
	up := listen(t)
	path := filepath.Join(t.TempDir(), "health.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
checks:
  - type: ping
    name: up
    address: %s
  - type: ping
    name: broken
    address: %s
    schedule: "every day"
`, up, up)), 0o600))

	out, err := execute(t, "run", "--all", "--config", path)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, "up", reports[0].Name)
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newCommand(&Options{Out: &out, ErrOut: io.Discard, now: func() time.Time { return testNow }})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func decodeReports(t *testing.T, out string) []report {
	var reports []report
	require.NoError(t, json.Unmarshal([]byte(out), &reports), out)
	return reports
}

func writeConfig(t *testing.T) string {
	up := listen(t)
	down := closedAddress(t)

	path := filepath.Join(t.TempDir(), "health.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
execution_timeout: 2s
checks:
  - type: ping
    name: up
    address: %s
  - type: ping
    name: down
    address: %s
  - type: ping
    name: nightly
    address: %s
    schedule: "0 0 * * *"
`, up, down, up)), 0o600))

	return path
}

func listen(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	return l.Addr().String()
}

func closedAddress(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}
