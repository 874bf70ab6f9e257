// cmd/selfsim/main.go
package main

import (
	"selfsim/internal/app"
	"selfsim/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
