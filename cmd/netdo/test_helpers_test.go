package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"netdo/internal/config"
	"netdo/internal/tasks"
	"netdo/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NETDO_NTFY_TOPIC", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	return &cliTestEnv{
		cfg:        cfg,
		configPath: testsupport.WriteConfig(t, cfg),
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("netdo %s: %v (stderr: %s)", strings.Join(args, " "), err, stderr)
	}
	return out
}

func listTasksJSON(t *testing.T, env *cliTestEnv, args ...string) []tasks.Task {
	t.Helper()
	out := mustRunCLI(t, env, append([]string{"--json", "list"}, args...)...)
	var list []tasks.Task
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	return list
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
