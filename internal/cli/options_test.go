// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"selfsim/internal/clibase"
)

func newFS() *flag.FlagSet { return NewFlagSet("test") }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestSingleInputDefaults(t *testing.T) {
	o := mustParse(t, "genome.fa")
	if len(o.SeqFiles) != 1 || o.SeqFiles[0] != "genome.fa" {
		t.Fatalf("inputs: %v", o.SeqFiles)
	}
	if o.Output != "-" || o.Format != "ipc" || o.Compression != "none" {
		t.Errorf("bad defaults %+v", o.Common)
	}
	if o.Spacing != 1000 || o.NearWindow != 10 || o.MidWindow != 100 {
		t.Errorf("bad grid defaults %+v", o.GridSettings())
	}
}

func TestFlagsAfterPositionals(t *testing.T) {
	o := mustParse(t, "a.fa", "-o", "out.arrow", "b.fa", "--threads", "3", "--sequential")
	if len(o.SeqFiles) != 2 || o.Output != "out.arrow" || o.Threads != 3 || !o.Sequential {
		t.Errorf("bad interleaved parse %+v", o.Common)
	}
}

func TestLegacyTwoPositionalForm(t *testing.T) {
	o := mustParse(t, "genome.fa", "genome.arrow")
	if len(o.SeqFiles) != 1 || o.Output != "genome.arrow" {
		t.Fatalf("legacy form: inputs=%v output=%q", o.SeqFiles, o.Output)
	}
	// two FASTA inputs stay inputs
	o = mustParse(t, "a.fa", "b.fa")
	if len(o.SeqFiles) != 2 || o.Output != "-" {
		t.Fatalf("two inputs: inputs=%v output=%q", o.SeqFiles, o.Output)
	}
}

func TestErrorNoInputs(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--threads", "2"}); err == nil {
		t.Fatalf("expected error without inputs")
	}
}

func TestErrorBadValues(t *testing.T) {
	cases := [][]string{
		{"--format", "csv", "a.fa"},
		{"--compression", "gzip", "a.fa"},
		{"--threads", "-1", "a.fa"},
		{"--batch-size", "0", "a.fa"},
		{"--sample-rate", "0", "a.fa"},
		{"--near-window", "2000", "a.fa"},
		{"--mid-max-separation", "50", "a.fa"},
		{"--log-format", "xml", "a.fa"},
		{"--log-level", "loud", "a.fa"},
		{"--publish", "s3://b/k", "a.fa"},
		{"--publish", "http://b/k", "a.fa", "-o", "x.arrow"},
		{"-", "-"},
	}
	for _, args := range cases {
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestHelpVersionExamples(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want ErrHelp, got %v", err)
	}
	o, err := ParseArgs(newFS(), []string{"--version"})
	if err != nil || !o.Version {
		t.Fatalf("version: %v %+v", err, o.Common)
	}
	if _, err := ParseArgs(newFS(), []string{"--examples"}); !errors.Is(err, clibase.ErrPrintedAndExitOK) {
		t.Fatalf("want ErrPrintedAndExitOK, got %v", err)
	}
}

func TestConfigFileAndPrecedence(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "selfsim.yaml")
	if err := os.WriteFile(cfg, []byte("threads: 6\ncompression: lz4\nbatch_size: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := mustParse(t, "--config", cfg, "--threads", "2", "a.fa")
	if o.Threads != 2 {
		t.Errorf("explicit flag must win, got threads=%d", o.Threads)
	}
	if o.Compression != "lz4" || o.BatchSize != 100 {
		t.Errorf("config values not applied: %+v", o.Common)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SELFSIM_SAMPLE_RATE", "5")
	t.Setenv("SELFSIM_REPORT_SAMPLE_RATE", "7")
	o := mustParse(t, "a.fa")
	if o.SampleRate != 7 {
		t.Errorf("want sample rate from SELFSIM_REPORT_SAMPLE_RATE, got %d", o.SampleRate)
	}
}

func TestGlobInputs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.fa", "b.fa"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(">x\nA\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	o := mustParse(t, filepath.Join(dir, "*.fa"))
	if len(o.SeqFiles) != 2 {
		t.Fatalf("glob: %v", o.SeqFiles)
	}
}
