package domain

import "time"

// DefaultDiscoveryCommand runs the tap image in discovery mode against the
// staged configuration and writes the catalog next to it.
// Every interpolated field is shell quoted.
const DefaultDiscoveryCommand = `docker run --rm -v {{quote (printf "%s:/app/tap" .StageDir)}} ` +
	`{{quote (printf "dataworld/tap-%s:%s" .TapName .TapVersion)}} ` +
	`--config /app/tap/config.json --discover > {{quote .CatalogPath}}`

// DefaultDiscoveryTimeout bounds a discovery run when no timeout is configured.
const DefaultDiscoveryTimeout = 10 * time.Minute

// AppSettings holds all application settings.
type AppSettings struct {
	Workspace WorkspaceSettings
	Discovery DiscoverySettings
	Docker    DockerSettings
}

// WorkspaceSettings locates the knot files.
type WorkspaceSettings struct {
	// Dir is the working directory holding knot.json and docker/tap.
	Dir string
	// KnotsDir is the directory listing registered knots.
	// Empty means <Dir>/knots.
	KnotsDir string
}

// DiscoverySettings configures the discovery subprocess.
type DiscoverySettings struct {
	// Command is a text/template shell command.
	Command string
	// Timeout bounds the subprocess. Zero disables the bound.
	Timeout time.Duration
	// PersistSchema merges the catalog into tap.schema after discovery.
	PersistSchema bool
}

// DockerSettings configures the docker presence probe.
type DockerSettings struct {
	// Binary is the docker executable name or path.
	Binary string
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Workspace: WorkspaceSettings{
			Dir: ".",
		},
		Discovery: DiscoverySettings{
			Command:       DefaultDiscoveryCommand,
			Timeout:       DefaultDiscoveryTimeout,
			PersistSchema: true,
		},
		Docker: DockerSettings{
			Binary: "docker",
		},
	}
}
