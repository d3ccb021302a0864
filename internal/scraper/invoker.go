// Package scraper runs the external product classifier and converts its
// output into classification records.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
)

// Defaults applied by NewCommandInvoker.
const (
	DefaultTimeout           = 60 * time.Second
	DefaultRequestsPerMinute = 30

	// waitDelay bounds how long Run waits on output pipes after the process is killed.
	waitDelay = 2 * time.Second
	// maxStderrInError caps how much stderr is quoted in a returned error.
	maxStderrInError = 512
)

// Config describes how to launch the classifier. The product name is
// appended to Args as its own argument.
type Config struct {
	Command           string
	Args              []string
	Timeout           time.Duration
	RequestsPerMinute int
}

// CommandInvoker runs the classifier as a child process.
type CommandInvoker struct {
	limiter *rateLimiter
	command string
	args    []string
	timeout time.Duration
}

// NewCommandInvoker validates cfg and resolves the command on PATH.
func NewCommandInvoker(cfg Config) (*CommandInvoker, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, fmt.Errorf("%w: scraper command", common.ErrMissingConfig)
	}

	path, err := exec.LookPath(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: scraper command %q not found: %w", common.ErrInvalidConfig, cfg.Command, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	args := make([]string, len(cfg.Args))
	copy(args, cfg.Args)

	return &CommandInvoker{
		command: path,
		args:    args,
		timeout: timeout,
		limiter: newRateLimiter(cfg.RequestsPerMinute),
	}, nil
}

// Invoke classifies name. Every failure is a common.ErrResolution.
//
// Once started the process is detached from ctx: it runs until it exits or
// the invoker's timeout elapses, even if the caller goes away.
func (c *CommandInvoker) Invoke(ctx context.Context, name string) ([]model.ClassificationRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ValidationError("product name is required")
	}

	if err := c.limiter.wait(ctx); err != nil {
		return nil, common.ResolutionError("classifier not started", err)
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	args := append(append([]string{}, c.args...), name)
	cmd := exec.CommandContext(runCtx, c.command, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	slog.Debug("Invoking classifier", "command", c.command, "product", name)

	err := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, common.ResolutionError(
			fmt.Sprintf("classifier timed out after %s", c.timeout),
			context.DeadlineExceeded,
		)
	}
	if err != nil {
		if msg := trimStderr(stderr.String()); msg != "" {
			return nil, common.ResolutionError(fmt.Sprintf("classifier failed: %s", msg), err)
		}
		return nil, common.ResolutionError("classifier failed", err)
	}

	if msg := trimStderr(stderr.String()); msg != "" {
		slog.Warn("Classifier wrote to stderr", "product", name, "stderr", msg)
	}

	records, err := ParseRecords(stdout.Bytes(), name)
	if err != nil {
		return nil, common.ResolutionError("unparsable classifier output", err)
	}

	slog.Info("Classifier finished",
		"product", name,
		"records", len(records),
		"duration", elapsed)

	return records, nil
}

// Close releases the rate limiter.
func (c *CommandInvoker) Close() {
	c.limiter.Close()
}

func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrInError {
		s = s[:maxStderrInError] + "..."
	}
	return s
}
