// Package constants contains fixed string values shared across the release
// pipeline. They live in a separate package to avoid circular dependencies
// between packages that contain functional code.
package constants

const (
	// DefaultAuthorName is used when no author-name argument is given.
	DefaultAuthorName = "Elastic"
	// ImagePlatform is the only architecture the forwarder image is built for.
	ImagePlatform = "linux/amd64"
	// PackagedTemplateKey is the fixed bucket key the packaged top-level
	// template is uploaded to after a successful publish.
	PackagedTemplateKey = "application.yaml"
	// ApplicationSubdir is the subtree of the workspace holding staged sources.
	ApplicationSubdir = "application"
)
