package slidejsx

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/k1LoW/exec"
	"github.com/k1LoW/slidejsx/template"
)

const envOutput = "SLIDEJSX_OUTPUT"

// PostConvert describes a written component passed to the post convert command.
type PostConvert struct {
	Output    string
	Component string
	Nodes     int
}

// RunPostConvertCommand runs cmdStr after a component has been written.
// The command supports template variables: {{output}}, {{component}}, {{nodes}} and {{env.XXX}}.
// It also receives the output path through the environment variable SLIDEJSX_OUTPUT.
func RunPostConvertCommand(ctx context.Context, cmdStr string, pc PostConvert) (stdout []byte, err error) {
	if cmdStr == "" {
		return nil, nil
	}
	env := template.EnvironToMap()
	env[envOutput] = pc.Output
	store := map[string]any{
		"output":    pc.Output,
		"component": pc.Component,
		"nodes":     pc.Nodes,
		"env":       env,
	}
	expandedCmd, err := template.Expand(cmdStr, store)
	if err != nil {
		return nil, fmt.Errorf("failed to expand post convert command template: %w", err)
	}
	c, args, err := buildCommand(expandedCmd)
	if err != nil {
		return nil, fmt.Errorf("failed to build post convert command: %w", err)
	}

	cmd := exec.CommandContext(ctx, c, args...)
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, envOutput+"="+pc.Output)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run post convert command: %w\nstderr: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

// buildCommand parses a command string and returns the command and arguments.
func buildCommand(cmdStr string) (string, []string, error) {
	shell, err := detectShell()
	if err != nil {
		return "", nil, err
	}
	return shell, []string{"-c", cmdStr}, nil
}

// detectShell detects the current shell.
func detectShell() (string, error) {
	shells := []string{
		os.Getenv("SHELL"),
		"/bin/bash",
		"/bin/sh",
	}
	for _, shell := range shells {
		if shell == "" {
			continue
		}
		if _, err := os.Stat(shell); err == nil {
			return shell, nil
		}
	}
	return "", fmt.Errorf("failed to detect shell")
}
