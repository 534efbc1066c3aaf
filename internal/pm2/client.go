package pm2

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/ghoslerctl/internal/tools"
	"github.com/rs/zerolog/log"
)

const (
	// Marker is the app argument attached at start time. Listings are
	// filtered to processes carrying it so foreign PM2 processes on the
	// same host are never touched.
	Marker = "ghosler"

	entryScript = "app.js"
)

var (
	ErrSupervisorMissing = errors.New("pm2: binary not found")
	ErrUnknownStream     = errors.New("pm2: unknown log stream")
)

// Client issues raw supervisor commands as structured argv invocations.
type Client struct {
	bin    string
	runner tools.CommandRunner
}

// NewClient constructs a supervisor client. An empty bin defaults to
// "pm2", a nil runner to local execution.
func NewClient(bin string, runner tools.CommandRunner) *Client {
	resolved := strings.TrimSpace(bin)
	if resolved == "" {
		resolved = "pm2"
	}
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &Client{bin: resolved, runner: runner}
}

// Ping verifies the supervisor daemon responds, spawning it when absent.
func (c *Client) Ping() error {
	_, err := c.exec("", "ping")
	return err
}

// List returns every supervised process carrying the Ghosler marker.
func (c *Client) List() ([]Instance, error) {
	stdout, err := c.exec("", "jlist")
	if err != nil {
		return nil, err
	}
	payload := strings.TrimSpace(string(stdout))
	if payload == "" {
		return nil, nil
	}

	var entries []listEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("pm2: parse jlist: %w", err)
	}

	out := make([]Instance, 0, len(entries))
	for _, e := range entries {
		if !hasMarker(e.Env.Args) {
			continue
		}
		out = append(out, Instance{
			Name:   strings.TrimSpace(e.Name),
			Path:   e.Env.Cwd,
			PID:    e.PID,
			Status: statusFromSupervisor(e.Env.Status),
			OutLog: e.Env.OutLog,
			ErrLog: e.Env.ErrLog,
		})
	}
	return out, nil
}

// Start launches the app entry script under the supervisor from dir.
// Auto-restart stays disabled: restart decisions belong to this tool,
// not the supervisor.
func (c *Client) Start(name string, dir string, branch string) error {
	args := []string{"start", entryScript, "--name", name, "--no-autorestart", "--", Marker}
	if b := strings.TrimSpace(branch); b != "" {
		args = append(args, b)
	}
	_, err := c.exec(dir, args...)
	return err
}

// Stop halts a supervised process without removing it.
func (c *Client) Stop(name string) error {
	_, err := c.exec("", "stop", name)
	return err
}

// Restart restarts a supervised process in place.
func (c *Client) Restart(name string) error {
	_, err := c.exec("", "restart", name)
	return err
}

// Delete removes a process from supervision entirely.
func (c *Client) Delete(name string) error {
	_, err := c.exec("", "delete", name)
	return err
}

// Flush truncates the supervised log files of one process.
func (c *Client) Flush(name string) error {
	_, err := c.exec("", "flush", name)
	return err
}

// Logs returns recent log lines for one process without streaming.
// Stream selects the output ("out", default) or error ("error") file.
func (c *Client) Logs(name string, stream string, lines int) (string, error) {
	args := []string{"logs", name, "--nostream", "--raw", "--lines", strconv.Itoa(lines)}
	switch strings.ToLower(strings.TrimSpace(stream)) {
	case "", "out":
		args = append(args, "--out")
	case "error", "err":
		args = append(args, "--err")
	default:
		return "", fmt.Errorf("%w: %q (expected out or error)", ErrUnknownStream, stream)
	}
	stdout, err := c.exec("", args...)
	if err != nil {
		return "", err
	}
	return string(stdout), nil
}

// supervisor jlist payload subset.
type listEntry struct {
	PID  int     `json:"pid"`
	Name string  `json:"name"`
	Env  listEnv `json:"pm2_env"`
}

type listEnv struct {
	Status string   `json:"status"`
	Cwd    string   `json:"pm_cwd"`
	Args   []string `json:"args"`
	OutLog string   `json:"pm_out_log_path"`
	ErrLog string   `json:"pm_err_log_path"`
}

func hasMarker(args []string) bool {
	for _, a := range args {
		if strings.TrimSpace(a) == Marker {
			return true
		}
	}
	return false
}

func (c *Client) exec(dir string, args ...string) ([]byte, error) {
	log.Debug().Str("bin", c.bin).Strs("args", args).Msg("supervisor exec")
	stdout, stderr, exitCode, err := c.runner.RunDir(dir, c.bin, args...)
	if err == nil {
		return stdout, nil
	}
	if exitCode == 127 {
		return stdout, fmt.Errorf("%w: install pm2 or point pm2_bin at it", ErrSupervisorMissing)
	}
	return stdout, fmt.Errorf(
		"pm2 command failed cmd=%s args=%q exit=%d stdout=%q stderr=%q: %w",
		c.bin,
		strings.Join(args, " "),
		exitCode,
		strings.TrimSpace(string(stdout)),
		strings.TrimSpace(string(stderr)),
		err,
	)
}
