// Package proc executes fully-specified external process invocations
// with proper error handling and leveled output logging.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/JonathanFeenstra/mob/internal/logx"
)

// Invocation describes a single external process run. It is built once
// by a command layer and consumed exactly once by Run. Environment
// overrides are scoped to the invocation; the process-wide environment
// is never mutated.
type Invocation struct {
	Binary string
	Args   []string
	Dir    string
	Env    map[string]string

	// Stdin is fed to the process when non-empty.
	Stdin string

	// Output from each stream is logged line-wise at these levels.
	StdoutLevel logx.Level
	StderrLevel logx.Level

	// StderrFilter can reclassify individual stderr lines, typically to
	// downgrade known-benign noise. Returning a different level than
	// StderrLevel overrides it for that line.
	StderrFilter func(line string) logx.Level

	// AllowFailure suppresses the error for a nonzero exit code; the
	// caller inspects Result.Code instead.
	AllowFailure bool

	// CaptureStdout retains stdout in Result.Stdout for parsing.
	CaptureStdout bool
}

// Result holds the outcome of a completed invocation.
type Result struct {
	Code   int
	Stdout string
}

// Run executes the invocation and blocks until the process exits.
// A nonzero exit code is an error unless AllowFailure is set; the error
// message carries trimmed stderr when available.
func Run(ctx context.Context, inv Invocation) (Result, error) {
	log := logx.FromContext(ctx)
	log.Command(inv.Binary, inv.Args...)

	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		env := os.Environ()
		for k, v := range inv.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}
	if inv.Stdin != "" {
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	code := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Spawn failure, not a process failure.
			return Result{Code: -1}, fmt.Errorf("%s: %w", inv.Binary, runErr)
		}
		code = exitErr.ExitCode()
	}

	logLines(log, stdout.String(), inv.StdoutLevel, nil)
	logLines(log, stderr.String(), inv.StderrLevel, inv.StderrFilter)

	res := Result{Code: code}
	if inv.CaptureStdout {
		res.Stdout = stdout.String()
	}

	if code != 0 && !inv.AllowFailure {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return res, fmt.Errorf("%s", msg)
		}
		return res, runErr
	}
	return res, nil
}

func logLines(log *logx.Logger, out string, lv logx.Level, filter func(string) logx.Level) {
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineLv := lv
		if filter != nil {
			lineLv = filter(line)
		}
		log.Logf(lineLv, "%s", line)
	}
}
