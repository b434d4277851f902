package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary once for all tests
	tmpDir, err := os.MkdirTemp("", "autobox-e2e-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	binaryPath = filepath.Join(tmpDir, "autobox")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = filepath.Join(getModuleRoot(), "cmd", "autobox")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out) + ": " + err.Error())
	}

	os.Exit(m.Run())
}

func getModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			// Make sure it's the main module, not a testdata module
			if _, err := os.Stat(filepath.Join(dir, "analyzer.go")); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("module root not found")
		}
		dir = parent
	}
}

func getE2ETestdata() string {
	return filepath.Join(getModuleRoot(), "cmd", "autobox", "testdata")
}

// writeModule creates a throwaway module holding a single main.go.
func writeModule(t *testing.T, source string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/tmp\n\ngo 1.23\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestE2E_ConfigScenario(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")

	cmd := exec.Command(binaryPath, "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	// Should exit with non-zero (has diagnostics)
	if err == nil {
		t.Fatal("expected non-zero exit code for an entry point with effects")
	}

	output := string(out)

	first := strings.Index(output, `Side effect: reads_file("~/config_dir")`)
	second := strings.Index(output, `Side effect: reads_file("~/config_dir/config_file.json")`)
	if first < 0 || second < 0 {
		t.Fatalf("expected both effects, got:\n%s", output)
	}
	if first > second {
		t.Errorf("effects out of order:\n%s", output)
	}

	// Verify it points to the entry point
	if !strings.Contains(output, "main.go:") {
		t.Errorf("expected file location in output, got:\n%s", output)
	}

	// flush has an empty body and no declaration
	if strings.Contains(output, "writes_file") {
		t.Errorf("unexpected writes_file effect without declarations, got:\n%s", output)
	}
}

func TestE2E_DeclarationsFile(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")
	decls := filepath.Join(getE2ETestdata(), "decls", "decls.yaml")

	cmd := exec.Command(binaryPath, "-declarations="+decls, "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	if err == nil {
		t.Fatal("expected non-zero exit code for an entry point with effects")
	}

	output := string(out)
	if !strings.Contains(output, `Side effect: writes_file("~/cache/data.db")`) {
		t.Errorf("expected declared effect of store.flush, got:\n%s", output)
	}
}

func TestE2E_MissingDeclarationsFile(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")

	cmd := exec.Command(binaryPath, "-declarations=does-not-exist.yaml", "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	if err == nil {
		t.Fatal("expected non-zero exit code for a missing declarations file")
	}
	if !strings.Contains(string(out), "does-not-exist.yaml") {
		t.Errorf("expected the file name in the error, got:\n%s", out)
	}
}

func TestE2E_Diagnostics(t *testing.T) {
	dir := writeModule(t, `package main

type Fetcher interface {
	Fetch(url string) string
}

//autobox:entrypoint
func main() {
	var f Fetcher
	f.Fetch("https://example.com")
}
`)

	// Without -diagnostics an unknown call is silent
	cmd := exec.Command(binaryPath, "./...")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Errorf("expected zero exit code without -diagnostics, got error: %v\noutput:\n%s", err, out)
	}

	cmd = exec.Command(binaryPath, "-diagnostics", "./...")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected non-zero exit code with -diagnostics")
	}
	if !strings.Contains(string(out), "unknown-function: unknown function Fetcher.Fetch treated as opaque") {
		t.Errorf("expected unknown-function diagnostic, got:\n%s", out)
	}
}

func TestE2E_MaxDepth(t *testing.T) {
	dir := writeModule(t, `package main

//autobox:declare args=(p as P) side_effects=(reads_file(P))
func read(p string) {}

func inner(p string) { read(p) }

func outer(p string) { inner(p + "/x") }

//autobox:entrypoint
func main() {
	outer("/srv")
}
`)

	cmd := exec.Command(binaryPath, "-max-depth=2", "-diagnostics", "./...")
	cmd.Dir = dir
	out, _ := cmd.CombinedOutput()

	output := string(out)
	if !strings.Contains(output, "depth-limit: depth limit 2 reached at inner") {
		t.Errorf("expected depth-limit diagnostic, got:\n%s", output)
	}
	if strings.Contains(output, "Side effect:") {
		t.Errorf("expected no effects past the depth limit, got:\n%s", output)
	}
}

func TestE2E_HelpFlag(t *testing.T) {
	cmd := exec.Command(binaryPath, "-help")
	out, _ := cmd.CombinedOutput()

	output := string(out)

	// Should show usage info with our flags
	expectedFlags := []string{
		"-declarations",
		"-collision",
		"-max-depth",
		"-diagnostics",
		"-debug",
	}

	for _, flag := range expectedFlags {
		if !strings.Contains(output, flag) {
			t.Errorf("expected flag %q in help output, got:\n%s", flag, output)
		}
	}
}

func TestE2E_NoEntrypointsExitZero(t *testing.T) {
	dir := writeModule(t, `package main

func main() {
	greet("world")
}

func greet(name string) string {
	return "hello " + name
}
`)

	cmd := exec.Command(binaryPath, "./...")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("expected zero exit code without entry points, got error: %v\noutput:\n%s", err, out)
	}
}

func TestE2E_InvalidCollisionPolicy(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")

	cmd := exec.Command(binaryPath, "-collision=random", "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	if err == nil {
		t.Fatal("expected non-zero exit code for an unknown collision policy")
	}
	if !strings.Contains(string(out), `unknown collision policy "random"`) {
		t.Errorf("expected policy error, got:\n%s", out)
	}
}

func TestE2E_InvalidFlag(t *testing.T) {
	cmd := exec.Command(binaryPath, "-invalid-flag-xyz", "./...")
	_, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("expected non-zero exit code for invalid flag")
	}
}

func TestE2E_Version(t *testing.T) {
	// singlechecker doesn't have a version flag, but -V=full shows analyzer info
	cmd := exec.Command(binaryPath, "-V=full")
	out, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("unexpected error: %v\noutput:\n%s", err, out)
	}

	output := string(out)
	if !strings.Contains(output, "autobox") {
		t.Errorf("expected analyzer name in version output, got:\n%s", output)
	}
}
