package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flightsizer/pkg/observability"
)

// runCLI executes the root command with args in an isolated XDG environment
// and returns what was printed to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	var out bytes.Buffer
	var errOut syncBuffer
	c := New(&out, &errOut, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSizeCommand_File(t *testing.T) {
	path := writeTestFile(t, "flight.json", `{"elements": [[3, 1], [2, 4]]}`)

	out, err := runCLI(t, "size", path)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	for _, want := range []string{"Unsized", "After primary sizing", "Sized", "1 moves", "2 moves", "3 moves"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSizeCommand_Output(t *testing.T) {
	path := writeTestFile(t, "flight.json", `{"elements": [[3, 1], [2, 4]]}`)
	output := filepath.Join(t.TempDir(), "sized.json")

	if _, err := runCLI(t, "size", path, "-o", output); err != nil {
		t.Fatalf("size: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{`"sized"`, `"after_primary"`, `"total_moves": 3`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("sizing file missing %s:\n%s", want, data)
		}
	}
}

func TestSizeCommand_Random(t *testing.T) {
	out, err := runCLI(t, "size", "--ranks", "3", "--elements", "2", "--seed", "7")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if !strings.Contains(out, "Total") {
		t.Errorf("output missing move counts:\n%s", out)
	}

	again, err := runCLI(t, "size", "--ranks", "3", "--elements", "2", "--seed", "7")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if out != again {
		t.Error("the same seed should draw the same flight")
	}
}

func TestSizeCommand_InvalidDimensions(t *testing.T) {
	if _, err := runCLI(t, "size", "--ranks", "0"); err == nil {
		t.Error("expected an error for zero ranks")
	}
}

func TestSizeCommand_MissingFile(t *testing.T) {
	if _, err := runCLI(t, "size", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing flight file")
	}
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	result := filepath.Join(dir, "result.json")
	csv := filepath.Join(dir, "trials.csv")
	svg := filepath.Join(dir, "moves.svg")

	out, err := runCLI(t, "simulate", "--trials", "50", "--ranks", "4", "--elements", "3",
		"--workers", "2", "-o", result, "--csv", csv, "--chart", svg)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, want := range []string{"primary", "secondary", "total", "50 trials", "Normal fit"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, path := range []string{result, csv, svg} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to be written: %v", path, err)
		}
	}
}

func TestSimulateCommand_InvalidTrials(t *testing.T) {
	if _, err := runCLI(t, "simulate", "--trials=-1", "--no-cache"); err == nil {
		t.Error("expected an error for negative trials")
	}
}

func TestSimulateCommand_TooManyWorkers(t *testing.T) {
	if _, err := runCLI(t, "simulate", "--trials", "10", "--no-cache", "--workers", "100000000000"); err == nil {
		t.Error("expected an error for an absurd worker count")
	}
}

func TestSimulateCommand_TooManyBins(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "moves.svg")
	if _, err := runCLI(t, "simulate", "--trials", "10", "--no-cache", "--chart", chart, "--bins", "1000000000"); err == nil {
		t.Error("expected an error for too many bins")
	}
}

func TestPlotCommand(t *testing.T) {
	path := writeTestFile(t, "trials.csv", "trial,primary,secondary,total\n0,3,2,5\n1,4,4,8\n2,2,5,7\n")
	output := filepath.Join(t.TempDir(), "moves.html")

	out, err := runCLI(t, "plot", path, "-o", output)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(out, "3 trials") {
		t.Errorf("output missing trial count:\n%s", out)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.Contains(bytes.ToLower(data), []byte("<html")) {
		t.Error("html chart should be an HTML page")
	}
}

func TestPlotCommand_DefaultOutput(t *testing.T) {
	path := writeTestFile(t, "trials.csv", "trial,primary,secondary,total\n0,3,2,5\n1,4,4,8\n")

	if _, err := runCLI(t, "plot", path, "--format", "svg"); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(path, ".csv") + ".svg"); err != nil {
		t.Errorf("expected chart next to input: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[flight]", "ranks = 12", "[simulation]", "[cache]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigExplicitMissing(t *testing.T) {
	if _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "config", "show"); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestConfigFileOverrides(t *testing.T) {
	path := writeTestFile(t, "config.toml", "[flight]\nranks = 5\nelements = 2\n")

	out, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "ranks = 5") {
		t.Errorf("config output should reflect the file:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range completionShells() {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "flightsizer") {
				t.Errorf("completion %s output does not mention the command", shell)
			}
		})
	}
}

func TestCompletionCommand_UnknownShell(t *testing.T) {
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}
