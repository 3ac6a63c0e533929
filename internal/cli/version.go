package cli

// Build-time variables set via -ldflags. For example:
//
//	go build -ldflags "-X github.com/overcast-gis/wv2toar/internal/cli.Version=v1.0.0"
var (
	Version = "dev"
	BuiltAt = "unknown"
)
