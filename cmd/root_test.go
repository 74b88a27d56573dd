package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/store"
	"github.com/theirongolddev/fsplan/internal/template"
)

const smallTemplate = `
name: Small
budget_limit: 900
groups:
  army:
    name: Army
    items:
      Tanks: {budget: 100}
`

func TestLoadTemplateResolution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.yaml")
	if err := os.WriteFile(path, []byte(smallTemplate), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.General.CatalogPath = filepath.Join(dir, "catalog.db")

	doc, err := loadTemplate(cfg)
	if err != nil || doc.Name != template.Default().Name {
		t.Fatalf("empty ref: doc=%v err=%v, want built-in", doc, err)
	}

	cfg.General.Template = path
	doc, err = loadTemplate(cfg)
	if err != nil || doc.Name != "Small" {
		t.Fatalf("file ref: doc=%v err=%v", doc, err)
	}

	cat, err := store.Open(cfg.CatalogPath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cat.Save("stored", template.FormatYAML, []byte(smallTemplate)); err != nil {
		t.Fatal(err)
	}
	_ = cat.Close()

	cfg.General.Template = "stored"
	if doc, err = loadTemplate(cfg); err != nil || doc.Name != "Small" {
		t.Fatalf("catalog ref: doc=%v err=%v", doc, err)
	}

	cfg.General.Template = "missing"
	if _, err := loadTemplate(cfg); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}

func TestResolveLimitPrecedence(t *testing.T) {
	withLimit, err := template.Parse([]byte(smallTemplate), template.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	noLimit := template.Default()
	noLimit.BudgetLimit = nil

	cfg := config.DefaultConfig()

	got, err := resolveLimit(cfg, noLimit)
	if err != nil || !got.Equal(model.DefaultBudgetLimit) {
		t.Errorf("default = %s, %v", got, err)
	}
	got, _ = resolveLimit(cfg, withLimit)
	if got.String() != "900" {
		t.Errorf("template limit = %s, want 900", got)
	}

	cfg.General.BudgetLimit = "$1,500"
	got, _ = resolveLimit(cfg, withLimit)
	if got.String() != "1500" {
		t.Errorf("configured limit = %s, want 1500", got)
	}

	cfg.General.BudgetLimit = "lots"
	if _, err := resolveLimit(cfg, withLimit); err == nil {
		t.Error("expected an error for a malformed configured limit")
	}
}

func TestNewSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.yaml")
	if err := os.WriteFile(path, []byte(smallTemplate), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.General.Template = path
	cfg.General.DefaultScale = "M"

	sess, name, err := newSession(cfg, log.Discard())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if name != "Small" || sess.Scale() != money.Millions {
		t.Errorf("name=%q scale=%s", name, sess.Scale())
	}
	if got := sess.Ledger().Total().String(); got != "100" {
		t.Errorf("total = %s, want 100", got)
	}

	cfg.General.DefaultScale = "furlongs"
	if _, _, err := newSession(cfg, log.Discard()); err == nil {
		t.Error("expected an error for an unknown scale")
	}
}

func TestLoadConfigFlagsWin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FSPLAN_SCALE", "Millions")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.DefaultScale != "Millions" {
		t.Errorf("env scale = %q", cfg.General.DefaultScale)
	}

	flagScale = "Trillions"
	t.Cleanup(func() { flagScale = "" })
	cfg, _ = loadConfig()
	if cfg.General.DefaultScale != "Trillions" {
		t.Errorf("flag scale = %q", cfg.General.DefaultScale)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}
	if err := os.WriteFile(path, []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Error("expected an error for a malformed pid file")
	}
	if err := ensureServerNotRunning(filepath.Join(t.TempDir(), "absent.pid")); err != nil {
		t.Errorf("ensureServerNotRunning with no pid file: %v", err)
	}
}
