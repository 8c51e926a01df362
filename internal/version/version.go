package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/agentsync/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/agentsync/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/agentsync/internal/version.Date={{.Date}}
)

// Info returns the version followed by commit and build date when known
func Info() string {
	info := Version
	if Commit != "unknown" && Commit != "" {
		info += " (" + Commit
		if Date != "unknown" && Date != "" {
			info += ", " + Date
		}
		info += ")"
	}
	return info
}
