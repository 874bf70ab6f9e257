// internal/cli/options.go
package cli

import (
	"flag"

	"selfsim/internal/clibase"
	"selfsim/internal/cliutil"
	"selfsim/internal/config"
)

// Options holds all CLI flags and arguments after config merging.
type Options struct {
	clibase.Common
}

// NewFlagSet returns a clean FlagSet with ContinueOnError. ParseArgs
// installs the usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}

// ParseArgs registers and parses all flags, loads --config and SELFSIM_*
// values for flags not given explicitly, and validates the result.
// Flags and positionals may be interleaved.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	clibase.Register(fs, &opt.Common, config.Defaults())
	fs.BoolVar(&help, "h", false, "show this help message")
	clibase.UsageCommon(fs, fs.Name(), nil)

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	posArgs = append(posArgs, fs.Args()...)

	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if opt.Examples {
		return opt, clibase.ErrPrintedAndExitOK
	}

	cfg, err := config.Load(opt.ConfigFile)
	if err != nil {
		return opt, err
	}
	clibase.ApplyConfig(fs, &opt.Common, cfg)
	return opt, clibase.AfterParse(&opt.Common, posArgs)
}
