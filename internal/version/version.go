package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/jrsndl/EditIndexHelper/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/jrsndl/EditIndexHelper/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/jrsndl/EditIndexHelper/internal/version.Date={{.Date}}
)
