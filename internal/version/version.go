package version

// Build information, populated via -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
