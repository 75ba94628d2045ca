package commands

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInspectPrintsSong(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", "--seed", "77"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := Execute(); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var report inspectReport
	if err := yaml.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if report.Song.Seed != 77 {
		t.Fatalf("seed = %d, want 77", report.Song.Seed)
	}
	if len(report.Song.Tracks) == 0 || len(report.Song.Structure) == 0 {
		t.Fatalf("report missing tracks or structure: %+v", report.Song)
	}
	if len(report.Automation) == 0 || report.Automation[0].Param == "" {
		t.Fatalf("automation = %+v", report.Automation)
	}
}

func TestUnknownConfigFails(t *testing.T) {
	rootCmd.SetArgs([]string{"inspect", "--config", t.TempDir() + "/missing.yaml"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	if err := Execute(); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestInspectKeepsExplicitZeroSeed(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", "--seed", "0"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		inspectSeed = 0
		inspectCmd.Flags().Lookup("seed").Changed = false
	})
	if err := Execute(); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var report inspectReport
	if err := yaml.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if report.Song.Seed != 0 {
		t.Fatalf("seed = %d, want the requested 0", report.Song.Seed)
	}
}
