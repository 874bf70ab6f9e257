// internal/runutil/runutil.go
package runutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// EffectiveThreads returns n, or the number of CPUs when n <= 0.
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ComputeQueueCapacity picks the sink queue depth. An explicit value wins;
// otherwise two batches per worker may be in flight.
func ComputeQueueCapacity(queueCap, workers int) int {
	if queueCap > 0 {
		return queueCap
	}
	if workers < 1 {
		workers = 1
	}
	return 2 * workers
}

// ValidateExecution resolves worker and queue sizes for the chosen mode,
// returns (workers, queueCap, warnings).
// Rules:
//   - --sequential runs on one goroutine and writes synchronously; --threads
//     and --queue-capacity are ignored with a warning when set
//   - otherwise threads <= 0 means all CPUs and the queue defaults to 2×workers
func ValidateExecution(sequential bool, threads, queueCap int) (int, int, []string) {
	if sequential {
		var warns []string
		if threads > 0 {
			warns = append(warns, "warning: --sequential ignores --threads")
		}
		if queueCap > 0 {
			warns = append(warns, "warning: --sequential ignores --queue-capacity")
		}
		return 1, 0, warns
	}
	w := EffectiveThreads(threads)
	return w, ComputeQueueCapacity(queueCap, w), nil
}

// ComputeTagged tells the writer whether to add the chromosome column: only
// when more than one sequence was supplied, unless forced.
func ComputeTagged(sequences int, force bool) bool {
	return force || sequences > 1
}

var outputExts = []string{".arrow", ".ipc", ".feather", ".json"}

// LooksLikeOutput reports whether a positional names an output container
// rather than a FASTA input (legacy "<input> <output>" form).
func LooksLikeOutput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range outputExts {
		if ext == e {
			return true
		}
	}
	return false
}
