package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/tasks/internal/update"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLIAddListToggleDelete(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "cli.db")

	if _, err := runCLI(t, "--db", db, "add", "buy", "milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := runCLI(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "[ ]") || !strings.Contains(out, "buy milk") || !strings.Contains(out, "total 1") {
		t.Fatalf("unexpected list output: %q", out)
	}

	fields := strings.Fields(strings.SplitN(out, "\n", 2)[0])
	id := fields[2]

	out, err = runCLI(t, "--db", db, "toggle", id)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(out, "completed 1") {
		t.Fatalf("unexpected toggle output: %q", out)
	}

	out, err = runCLI(t, "--db", db, "list", "--filter", "pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if strings.Contains(out, "buy milk") {
		t.Fatalf("expected completed task hidden: %q", out)
	}

	out, err = runCLI(t, "--db", db, "delete", "#"+id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "total 0") {
		t.Fatalf("unexpected delete output: %q", out)
	}
}

func TestCLIDispatchAndExport(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	db := filepath.Join(dir, "cli.db")

	if _, err := runCLI(t, "--db", db, "dispatch", `{"type":"ADD_TODO","payload":"  ship it "}`); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := runCLI(t, "--db", db, "dispatch", `{"type":"ARCHIVE_TODO","payload":1}`); err != nil {
		t.Fatalf("dispatch unknown: %v", err)
	}
	if _, err := runCLI(t, "--db", db, "dispatch", `{"type":"TOGGLE_TODO","payload":"x"}`); err == nil {
		t.Fatal("expected payload error")
	}

	path := filepath.Join(dir, "out.md")
	if _, err := runCLI(t, "--db", db, "export", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(raw), "- [ ] ship it") {
		t.Fatalf("unexpected export: %q", raw)
	}
}

func TestCLIRecoversFromCorruptState(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "cli.db")
	if _, err := runCLI(t, "--db", db, "dispatch", `{"type":"ADD_TODO","payload":"x"}`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store, err := openStore(mustConfig(t, db))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Set(t.Context(), "tasks-state", "{not valid json"); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	_ = store.Close()

	out, err := runCLI(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "total 0") || !strings.Contains(out, "level=ERROR") {
		t.Fatalf("expected zero state and logged error: %q", out)
	}
}

func TestCLIListShowsLastSave(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := runCLI(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "saved ") {
		t.Fatalf("nothing saved yet, got %q", out)
	}

	if _, err := runCLI(t, "--db", db, "add", "milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err = runCLI(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "saved ") {
		t.Fatalf("expected last-saved line, got %q", out)
	}
}

func TestCLIReset(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "cli.db")

	if _, err := runCLI(t, "--db", db, "add", "milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := runCLI(t, "--db", db, "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "total 0") {
		t.Fatalf("unexpected reset output: %q", out)
	}

	out, err = runCLI(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "milk") || strings.Contains(out, "saved ") {
		t.Fatalf("expected empty store after reset, got %q", out)
	}

	if _, err := runCLI(t, "--db", db, "reset"); err != nil {
		t.Fatalf("second reset: %v", err)
	}
}

func mustConfig(t *testing.T, db string) update.RuntimeConfig {
	t.Helper()
	opts := &rootOptions{dbPath: db}
	cfg, err := opts.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}
