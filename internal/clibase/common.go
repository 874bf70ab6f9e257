// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"selfsim/internal/cliutil"
	"selfsim/internal/config"
	"selfsim/internal/logging"
	"selfsim/internal/publish"
	"selfsim/internal/runutil"
	"selfsim/internal/writers"
)

// Common holds every CLI field of selfsim.
type Common struct {
	// Input
	SeqFiles []string

	// Grid
	Spacing           int
	NearMaxSeparation int
	NearWindow        int
	MidMaxSeparation  int
	MidWindow         int

	// Performance
	Threads       int
	BatchSize     int
	QueueCapacity int
	Sequential    bool

	// Output
	Output      string // path, or "-" for stdout
	Format      string // ipc | report
	Compression string // none | lz4 | zstd
	SampleRate  int
	Pretty      bool
	Tag         bool // chromosome column even for a single sequence
	Publish     string

	// Misc
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Progress   bool
	Quiet      bool
	Version    bool
	Examples   bool

	// Resolved from ConfigFile; not a flag.
	PublishCfg config.Publish
}

// Register wires flags onto fs with defaults taken from d.
func Register(fs *flag.FlagSet, c *Common, d config.Config) {
	// Grid
	fs.IntVar(&c.Spacing, "spacing", d.Grid.Spacing, "grid spacing in bp")
	fs.IntVar(&c.NearMaxSeparation, "near-max-separation", d.Grid.NearMaxSeparation, "largest separation of the near tier (bp)")
	fs.IntVar(&c.NearWindow, "near-window", d.Grid.NearWindow, "window length of the near tier (bp)")
	fs.IntVar(&c.MidMaxSeparation, "mid-max-separation", d.Grid.MidMaxSeparation, "largest separation of the mid tier (bp)")
	fs.IntVar(&c.MidWindow, "mid-window", d.Grid.MidWindow, "window length of the mid tier (bp)")

	// Performance
	fs.IntVar(&c.Threads, "threads", d.Threads, "worker threads (0=all CPUs)")
	fs.IntVar(&c.Threads, "t", d.Threads, "alias of --threads")
	fs.IntVar(&c.BatchSize, "batch-size", d.BatchSize, "rows per output batch")
	fs.IntVar(&c.QueueCapacity, "queue-capacity", d.QueueCapacity, "batches buffered ahead of the writer (0=2×threads)")
	fs.BoolVar(&c.Sequential, "sequential", d.Sequential, "single goroutine, synchronous writes")

	// Output
	fs.StringVar(&c.Output, "output", "", "output file or '-' for STDOUT")
	fs.StringVar(&c.Output, "o", "", "alias of --output")
	fs.StringVar(&c.Format, "format", writers.FormatIPC, "output format: ipc | report")
	fs.StringVar(&c.Compression, "compression", d.Compression, "IPC body compression: none | lz4 | zstd")
	fs.IntVar(&c.SampleRate, "sample-rate", d.SampleRate, "report: keep every Nth pair")
	fs.BoolVar(&c.Pretty, "pretty", false, "report: indented JSON")
	fs.BoolVar(&c.Tag, "tag", false, "always write the chromosome column")
	fs.StringVar(&c.Publish, "publish", "", "upload the finished output to s3://bucket/key")

	// Misc
	fs.StringVar(&c.ConfigFile, "config", "", "config file (yaml, toml, json)")
	fs.StringVar(&c.LogLevel, "log-level", d.LogLevel, "log level: debug | info | warn | error")
	fs.StringVar(&c.LogFormat, "log-format", d.LogFormat, "log format: text | json")
	fs.BoolVar(&c.Progress, "progress", d.Progress, "progress bar on STDERR")
	fs.BoolVar(&c.Quiet, "quiet", false, "only warnings and errors")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit")
	fs.BoolVar(&c.Version, "version", false, "print version and exit")
	fs.BoolVar(&c.Examples, "examples", false, "print usage examples and exit")
}

// ApplyConfig copies file/env values into fields whose flag was not given
// explicitly.
func ApplyConfig(fs *flag.FlagSet, c *Common, cfg config.Config) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	pick := func(names ...string) bool {
		for _, n := range names {
			if set[n] {
				return false
			}
		}
		return true
	}

	if pick("spacing") {
		c.Spacing = cfg.Grid.Spacing
	}
	if pick("near-max-separation") {
		c.NearMaxSeparation = cfg.Grid.NearMaxSeparation
	}
	if pick("near-window") {
		c.NearWindow = cfg.Grid.NearWindow
	}
	if pick("mid-max-separation") {
		c.MidMaxSeparation = cfg.Grid.MidMaxSeparation
	}
	if pick("mid-window") {
		c.MidWindow = cfg.Grid.MidWindow
	}
	if pick("threads", "t") {
		c.Threads = cfg.Threads
	}
	if pick("batch-size") {
		c.BatchSize = cfg.BatchSize
	}
	if pick("queue-capacity") {
		c.QueueCapacity = cfg.QueueCapacity
	}
	if pick("sequential") {
		c.Sequential = cfg.Sequential
	}
	if pick("compression") {
		c.Compression = cfg.Compression
	}
	if pick("sample-rate") {
		c.SampleRate = cfg.SampleRate
	}
	if pick("log-level") {
		c.LogLevel = cfg.LogLevel
	}
	if pick("log-format") {
		c.LogFormat = cfg.LogFormat
	}
	if pick("progress") {
		c.Progress = cfg.Progress
	}
	c.PublishCfg = cfg.Publish
}

// GridSettings returns the grid fields in config form.
func (c *Common) GridSettings() config.Grid {
	return config.Grid{
		Spacing:           c.Spacing,
		NearMaxSeparation: c.NearMaxSeparation,
		NearWindow:        c.NearWindow,
		MidMaxSeparation:  c.MidMaxSeparation,
		MidWindow:         c.MidWindow,
	}
}

// AfterParse resolves positionals (legacy "<input> <output>" form, globs)
// and runs shared validation.
func AfterParse(c *Common, posArgs []string) error {
	if c.Output == "" && len(posArgs) == 2 && runutil.LooksLikeOutput(posArgs[1]) {
		c.Output = posArgs[1]
		posArgs = posArgs[:1]
	}
	if c.Output == "" {
		c.Output = "-"
	}
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return err
		}
		c.SeqFiles = append(c.SeqFiles, exp...)
	}
	return Validate(c)
}

// Validate applies the CLI invariants.
func Validate(c *Common) error {
	if len(c.SeqFiles) == 0 {
		return errors.New("at least one input FASTA is required")
	}
	stdin := 0
	for _, f := range c.SeqFiles {
		if f == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("'-' (STDIN) may appear only once")
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if c.BatchSize <= 0 {
		return errors.New("--batch-size must be > 0")
	}
	if c.QueueCapacity < 0 {
		return errors.New("--queue-capacity must be ≥ 0")
	}
	if c.SampleRate < 1 {
		return errors.New("--sample-rate must be ≥ 1")
	}
	if err := c.GridSettings().GridConfig().Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	switch c.Format {
	case writers.FormatIPC, writers.FormatReport:
	default:
		return fmt.Errorf("invalid --format %q", c.Format)
	}
	switch c.Compression {
	case writers.CompressionNone, writers.CompressionLZ4, writers.CompressionZstd:
	default:
		return fmt.Errorf("invalid --compression %q", c.Compression)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --log-format %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Publish != "" {
		if c.Output == "-" {
			return errors.New("--publish needs --output to name a file")
		}
		if _, _, err := publish.ParseURL(c.Publish); err != nil {
			return err
		}
	}
	return nil
}
