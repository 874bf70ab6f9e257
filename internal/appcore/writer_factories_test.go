package appcore

import (
	"testing"

	"selfsim/internal/pipeline"
	"selfsim/internal/writers"
)

func TestOutputFactoryTagging(t *testing.T) {
	f := NewOutputFactory(writers.FormatIPC, writers.CompressionLZ4, 1, false, false)
	if f.Options(1).Tagged {
		t.Fatal("single sequence must be untagged")
	}
	if !f.Options(3).Tagged {
		t.Fatal("several sequences must be tagged")
	}
	f.ForceTag = true
	if !f.Options(1).Tagged {
		t.Fatal("forced tagging ignored")
	}
	if f.Options(1).Compression != writers.CompressionLZ4 {
		t.Fatal("compression not carried")
	}
}

func TestOutputFactoryStream(t *testing.T) {
	f := NewOutputFactory(writers.FormatReport, "", 5, true, false)
	s := f.Stream(2, pipeline.Config{Workers: 3}, 6, nil, nil)
	if s.Format != writers.FormatReport || s.QueueCap != 6 || s.Pipeline.Workers != 3 {
		t.Fatalf("unexpected stream %+v", s)
	}
	if s.Writer.SampleRate != 5 || !s.Writer.Pretty || !s.Writer.Tagged {
		t.Fatalf("unexpected writer options %+v", s.Writer)
	}
}
