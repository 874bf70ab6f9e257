// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// leaf packages: no module imports at all
	leaf := []string{"selfsim/"}
	front := []string{
		"selfsim/internal/app", "selfsim/internal/cli", "selfsim/internal/config",
		"selfsim/internal/publish", "selfsim/cmd/",
	}

	bans := map[string][]string{
		"selfsim/internal/kernel": leaf,
		"selfsim/internal/grid":   leaf,
		"selfsim/internal/batch":  leaf,
		"selfsim/pkg/api":         leaf,
		"selfsim/internal/fasta": append([]string{
			"selfsim/internal/pipeline", "selfsim/internal/writers", "selfsim/internal/cmdutil",
		}, front...),
		"selfsim/internal/pipeline": append([]string{
			"selfsim/internal/writers", "selfsim/internal/cmdutil", "selfsim/pkg/embed",
		}, front...),
		"selfsim/internal/writers": append([]string{
			"selfsim/internal/pipeline", "selfsim/internal/cmdutil", "selfsim/pkg/embed",
		}, front...),
		"selfsim/internal/report": append([]string{
			"selfsim/internal/pipeline", "selfsim/internal/writers",
		}, front...),
		"selfsim/internal/progress": append([]string{
			"selfsim/internal/pipeline", "selfsim/internal/writers",
		}, front...),
		"selfsim/internal/cmdutil": front,
		"selfsim/pkg/embed":        front,
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "selfsim/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if imp != prefix && !strings.HasPrefix(imp, prefix+"/") {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "selfsim/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
