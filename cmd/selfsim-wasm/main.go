//go:build js && wasm

// cmd/selfsim-wasm/main.go
//
// Build: GOOS=js GOARCH=wasm go build -o selfsim.wasm ./cmd/selfsim-wasm
//
// Exposes two globals taking (fasta: Uint8Array, gzipped: bool, onProgress?: fn(string)):
//
//	selfsimProcessToIPC    → {data: Uint8Array} | {error: string}
//	selfsimProcessToReport → {data: Uint8Array} | {error: string}   (JSON bytes)
package main

import (
	"syscall/js"

	"selfsim/pkg/embed"
)

type processFunc func(data []byte, gzipped bool, notify embed.Notify) ([]byte, error)

func main() {
	js.Global().Set("selfsimProcessToIPC", export(embed.ProcessToIPC))
	js.Global().Set("selfsimProcessToReport", export(embed.ProcessToReport))
	select {}
}

func export(fn processFunc) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) < 1 || args[0].Type() != js.TypeObject {
			return failure("expected a Uint8Array with FASTA data")
		}
		data := make([]byte, args[0].Get("length").Int())
		js.CopyBytesToGo(data, args[0])

		gzipped := len(args) > 1 && args[1].Truthy()

		var notify embed.Notify
		if len(args) > 2 && args[2].Type() == js.TypeFunction {
			cb := args[2]
			notify = func(msg string) error {
				cb.Invoke(msg)
				return nil
			}
		}

		out, err := fn(data, gzipped, notify)
		if err != nil {
			return failure(err.Error())
		}
		arr := js.Global().Get("Uint8Array").New(len(out))
		js.CopyBytesToJS(arr, out)
		return map[string]any{"data": arr}
	})
}

func failure(msg string) map[string]any {
	return map[string]any{"error": msg}
}
