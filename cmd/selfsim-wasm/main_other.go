//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "selfsim-wasm must be built with GOOS=js GOARCH=wasm; use cmd/selfsim on the command line")
	os.Exit(2)
}
