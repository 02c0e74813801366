package version

import (
	"runtime/debug"
)

// Info bundles the module build information with the release version
// injected at link time.
type Info struct {
	*debug.BuildInfo
	ApplicationVersion string `json:"version"`
}

// version is filled by a linker argument.
var version string

// Get returns version information embedded into the binary.
func Get() Info {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		panic("no build info available: binary was built without module support")
	}

	return Info{buildInfo, version}
}
