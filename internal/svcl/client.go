package svcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bezmoradi/sinkswitch/internal/logger"
)

// DefaultExecutable is the file name of the bundled audio tool.
const DefaultExecutable = "svcl.exe"

const (
	directionRender = "Render"
	typeDevice      = "Device"
)

var (
	// ErrNotInstalled means the svcl executable could not be found.
	ErrNotInstalled = errors.New("svcl executable not found")
	// ErrNoDefaultDevice means no render device is marked as the multimedia default.
	ErrNoDefaultDevice = errors.New("no default render device")
)

// Device is a render device as shown to the user.
type Device struct {
	Name      string `json:"name"`
	DeviceID  string `json:"deviceId"`
	IsDefault bool   `json:"isDefault"`
}

// Client runs svcl and interprets its output.
type Client struct {
	path    string
	runner  Runner
	tempDir string
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// WithTempDir sets the directory for svcl's JSON output files.
func WithTempDir(dir string) Option {
	return func(c *Client) {
		c.tempDir = dir
	}
}

// NewClient creates a client for the svcl executable at path.
func NewClient(path string, opts ...Option) *Client {
	c := &Client{
		path:   path,
		runner: ExecRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the executable the client runs.
func (c *Client) Path() string {
	return c.path
}

// Locate resolves the svcl executable. An explicitly configured path wins;
// otherwise the tool is looked up next to the running binary (also in a
// resources subdirectory) and finally on PATH.
func Locate(configured string) string {
	if configured != "" {
		return configured
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		for _, candidate := range []string{
			filepath.Join(exeDir, DefaultExecutable),
			filepath.Join(exeDir, "resources", DefaultExecutable),
		} {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}

	if p, err := exec.LookPath(DefaultExecutable); err == nil {
		return p
	}
	return DefaultExecutable
}

// CheckInstalled verifies that the executable exists.
func (c *Client) CheckInstalled() error {
	if strings.ContainsAny(c.path, `/\`) {
		if _, err := os.Stat(c.path); err != nil {
			return fmt.Errorf("%w: %s", ErrNotInstalled, c.path)
		}
		return nil
	}
	if _, err := exec.LookPath(c.path); err != nil {
		return fmt.Errorf("%w: %s not in PATH", ErrNotInstalled, c.path)
	}
	return nil
}

// Records returns every record svcl reports.
func (c *Client) Records(ctx context.Context) ([]Record, error) {
	tmp, err := os.CreateTemp(c.tempDir, "svcl-*.json")
	if err != nil {
		return nil, &ToolError{Op: "list", Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if _, stderr, err := c.runner.Run(ctx, c.path, "/sjson", tmpPath); err != nil {
		return nil, newToolError("list", err, stderr)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, &ToolError{Op: "list", Err: fmt.Errorf("read output: %w", err)}
	}

	records, err := decodeOutput(data)
	if err != nil {
		return nil, &ToolError{Op: "list", Err: fmt.Errorf("parse output: %w", err)}
	}
	return records, nil
}

// ListDevices returns the render devices, projected for display.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	records, err := c.Records(ctx)
	if err != nil {
		logger.Error("[SVCL] Failed to list devices: %v", err)
		return nil, err
	}

	devices := make([]Device, 0, len(records))
	for _, r := range records {
		if !r.isRenderDevice() || r.Name == "" || r.ItemID == "" {
			continue
		}
		devices = append(devices, r.Device())
	}
	return devices, nil
}

// CurrentDevice returns the id of the default multimedia render device.
func (c *Client) CurrentDevice(ctx context.Context) (string, error) {
	records, err := c.Records(ctx)
	if err != nil {
		return "", err
	}

	for _, r := range records {
		if r.isRenderDevice() && r.isDefaultRender() {
			return r.ItemID, nil
		}
	}
	return "", ErrNoDefaultDevice
}

// SetDefault makes deviceID the default render device.
func (c *Client) SetDefault(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return &ToolError{Op: "set default", Err: errors.New("device id is required")}
	}

	if _, stderr, err := c.runner.Run(ctx, c.path, "/SetDefault", deviceID); err != nil {
		return newToolError("set default", err, stderr)
	}
	return nil
}
