package contracts

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// ServiceName identifies the dashboard in telemetry and logs
	ServiceName = "btc-dashboard"

	// Version of the dashboard service
	Version = "1.0.0"

	// APIVersion of the HTTP and websocket contracts
	APIVersion = "v1"
)

// Set with -ldflags "-X github.com/jatinsharma1322660/Bit-Coin-Prediction/pkg/contracts.GitCommit=..."
var (
	GitCommit = ""
	BuildTime = ""
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Service    string `json:"service"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildTime  string `json:"build_time,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Build returns the build information of this binary
func Build() BuildInfo {
	return BuildInfo{
		Service:    ServiceName,
		Version:    Version,
		APIVersion: APIVersion,
		GitCommit:  GitCommit,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders b for startup logs, e.g.
// "btc-dashboard 1.0.0 (api v1, commit abc123, go1.23.0 linux/amd64)"
func (b BuildInfo) String() string {
	parts := []string{"api " + b.APIVersion}
	if b.GitCommit != "" {
		parts = append(parts, "commit "+b.GitCommit)
	}
	parts = append(parts, b.GoVersion+" "+b.Platform)
	return fmt.Sprintf("%s %s (%s)", b.Service, b.Version, strings.Join(parts, ", "))
}
