// Package gpg shells out to the local gpg binary for decryption. Plaintext
// only ever travels through process pipes, never temp files.
package gpg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client decrypts password store entries with an external gpg binary.
type Client struct {
	binary   string
	useAgent bool
}

// NewClient resolves the gpg binary path up front so a missing binary fails
// before any entry is touched.
func NewClient(binary string, useAgent bool) (*Client, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("gpg binary %q not found: %w", binary, err)
	}
	return &Client{binary: path, useAgent: useAgent}, nil
}

// Decrypt returns the plaintext of one encrypted file. A failed gpg run
// carries its exit code and stderr in a DecryptError.
func (c *Client) Decrypt(ctx context.Context, path string) (string, error) {
	args := []string{"--decrypt", "--quiet", "--yes", "--batch"}
	if c.useAgent {
		args = append(args, "--use-agent")
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, c.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return "", &DecryptError{
			Path:     path,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			err:      err,
		}
	}

	return stdout.String(), nil
}

// DecryptError reports a gpg run that did not produce plaintext.
type DecryptError struct {
	Path     string
	ExitCode int
	Stderr   string
	err      error
}

func (e *DecryptError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("gpg failed for %s: %v", e.Path, e.err)
	}
	return fmt.Sprintf("gpg failed for %s: %s", e.Path, strings.TrimSpace(e.Stderr))
}

func (e *DecryptError) Unwrap() error {
	return e.err
}
