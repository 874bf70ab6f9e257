// internal/version/version.go
package version

// Version is stamped at build time:
//
//	go build -ldflags "-X selfsim/internal/version.Version=v1.2.3" ./cmd/selfsim
var Version = "dev"
