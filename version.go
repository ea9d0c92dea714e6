package wisp

// Build metadata, stamped at release time via
//
//	go build -ldflags "-X github.com/EternoSeeker/wisp.Version=... -X github.com/EternoSeeker/wisp.BuildDate=..."
var (
	Version   = "0.1.0-dev"
	BuildDate = "unknown"
)
