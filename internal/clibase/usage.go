// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"selfsim/internal/version"
)

// UsageCommon installs the Usage() handler on fs.
// extra prints tool-specific sections before the flag blocks.
func UsageCommon(fs *flag.FlagSet, name string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – genome self-similarity map\n\n", name)
		fmt.Fprintln(out, "License: MIT")
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  <input>...                   FASTA file(s), globs, or '-' for STDIN (.gz/.zst/.lz4 ok)")

		fmt.Fprintln(out, "\nGrid:")
		fmt.Fprintf(out, "      --spacing int             Grid spacing in bp [%s]\n", def("spacing"))
		fmt.Fprintf(out, "      --near-max-separation int Near tier upper separation [%s]\n", def("near-max-separation"))
		fmt.Fprintf(out, "      --near-window int         Near tier window [%s]\n", def("near-window"))
		fmt.Fprintf(out, "      --mid-max-separation int  Mid tier upper separation [%s]\n", def("mid-max-separation"))
		fmt.Fprintf(out, "      --mid-window int          Mid tier window [%s]\n", def("mid-window"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int             Worker threads (0=all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --batch-size int          Rows per output batch [%s]\n", def("batch-size"))
		fmt.Fprintf(out, "      --queue-capacity int      Batches buffered ahead of the writer (0=2×threads) [%s]\n", def("queue-capacity"))
		fmt.Fprintf(out, "      --sequential              One goroutine, synchronous writes [%s]\n", def("sequential"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, "  -o, --output file             Output file or '-' for STDOUT [-]")
		fmt.Fprintf(out, "      --format string           Output: ipc | report [%s]\n", def("format"))
		fmt.Fprintf(out, "      --compression string      IPC body compression: none | lz4 | zstd [%s]\n", def("compression"))
		fmt.Fprintf(out, "      --sample-rate int         Report: keep every Nth pair [%s]\n", def("sample-rate"))
		fmt.Fprintf(out, "      --pretty                  Report: indented JSON [%s]\n", def("pretty"))
		fmt.Fprintf(out, "      --tag                     Always write the chromosome column [%s]\n", def("tag"))
		fmt.Fprintln(out, "      --publish url             Upload the finished output to s3://bucket/key")

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --config file             Config file; SELFSIM_* env vars also apply")
		fmt.Fprintf(out, "      --log-level string        debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintf(out, "      --log-format string       text | json [%s]\n", def("log-format"))
		fmt.Fprintf(out, "      --progress                Progress bar on STDERR [%s]\n", def("progress"))
		fmt.Fprintf(out, "  -q, --quiet                   Only warnings and errors [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples                Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version                 Print version and exit")
		fmt.Fprintln(out, "  -h, --help                    Show this help and exit")
	}
}
