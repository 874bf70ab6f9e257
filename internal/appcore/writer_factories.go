// internal/appcore/writer_factories.go
package appcore

import (
	"selfsim/internal/cmdutil"
	"selfsim/internal/logging"
	"selfsim/internal/pipeline"
	"selfsim/internal/progress"
	"selfsim/internal/runutil"
	"selfsim/internal/writers"
)

// OutputFactory turns output flags into writer options once the number of
// loaded sequences is known.
type OutputFactory struct {
	Format      string
	Compression string
	SampleRate  int
	Pretty      bool
	ForceTag    bool
}

func NewOutputFactory(format, compression string, sampleRate int, pretty, forceTag bool) OutputFactory {
	return OutputFactory{
		Format:      format,
		Compression: compression,
		SampleRate:  sampleRate,
		Pretty:      pretty,
		ForceTag:    forceTag,
	}
}

// Options returns the writer options for a run over n sequences.
func (f OutputFactory) Options(n int) writers.Options {
	return writers.Options{
		Tagged:      runutil.ComputeTagged(n, f.ForceTag),
		Compression: f.Compression,
		SampleRate:  f.SampleRate,
		Pretty:      f.Pretty,
	}
}

// Stream assembles the cmdutil.Stream for a run over n sequences.
func (f OutputFactory) Stream(n int, cfg pipeline.Config, queueCap int, log *logging.Logger, rep *progress.Reporter) cmdutil.Stream {
	return cmdutil.Stream{
		Format:   f.Format,
		Writer:   f.Options(n),
		Pipeline: cfg,
		QueueCap: queueCap,
		Log:      log,
		Reporter: rep,
	}
}
