package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/games/match3/autoplay"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("match3 %s failed: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestListCommand(t *testing.T) {
	out := execute(t, "list")
	for _, want := range []string{"match3", "match3_zen", "Match-3 (Zen)"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output is missing %q:\n%s", want, out)
		}
	}
}

func TestSimulateCommandJSON(t *testing.T) {
	out := execute(t, "simulate", "--json", "--moves", "10", "--seed", "3",
		"--width", "6", "--height", "6", "--types", "5", "--log-level", "error")

	var res autoplay.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out)
	}
	if res.Moves != 10 {
		t.Errorf("Moves = %d, expected 10", res.Moves)
	}
	if res.Score <= 0 {
		t.Errorf("Score = %d, expected positive", res.Score)
	}
}

func TestSimulateCommandTable(t *testing.T) {
	flagSimJSON = false
	out := execute(t, "simulate", "--moves", "5", "--seed", "9", "--width", "5", "--height", "5", "--log-level", "error")
	for _, want := range []string{"Simulation", "Moves", "Reshuffles", "5x5"} {
		if !strings.Contains(out, want) {
			t.Errorf("simulate output is missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := t.TempDir() + "/match3.yaml"
	if out := execute(t, "config", "init", path); !strings.Contains(out, "Wrote") {
		t.Errorf("config init output = %q", out)
	}

	rootCmd.SetArgs([]string{"config", "init", path})
	if err := rootCmd.Execute(); err == nil {
		t.Error("second config init should fail without --force")
	}
}
