package release

import (
	"fmt"
	"strings"
)

// InputError is returned when the release request is malformed.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid release request: " + e.Reason
}

// StagingError is returned when a required source path is missing or
// unreadable while populating the workspace.
type StagingError struct {
	Path string
	Err  error
}

func (e *StagingError) Unwrap() error { return e.Err }

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging %s: %v", e.Path, e.Err)
}

// ProvisioningError is returned when bucket creation or policy application
// is rejected. It is fatal and never retried.
type ProvisioningError struct {
	Bucket string
	Err    error
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning bucket %s: %v", e.Bucket, e.Err)
}

// BuildError is returned on registry authentication or image build failure.
type BuildError struct {
	Image string
	Err   error
}

func (e *BuildError) Unwrap() error { return e.Err }

func (e *BuildError) Error() string {
	return fmt.Sprintf("building image %s: %v", e.Image, e.Err)
}

// TemplateError is returned when a manifest template cannot be rendered
// completely. Unresolved placeholders are a defect, not an expected
// operational failure.
type TemplateError struct {
	Kind   ManifestKind
	Tokens []string
	Err    error
}

func (e *TemplateError) Unwrap() error { return e.Err }

func (e *TemplateError) Error() string {
	if len(e.Tokens) > 0 {
		return fmt.Sprintf(
			"rendering %s manifest: unresolved placeholders: %s",
			e.Kind, strings.Join(e.Tokens, ", "))
	}
	return fmt.Sprintf("rendering %s manifest: %v", e.Kind, e.Err)
}

// PublishError is returned when a build, package or publish call against
// the marketplace fails. It aborts all remaining sub-pipelines.
type PublishError struct {
	Kind  ManifestKind
	Stage string
	Err   error
}

func (e *PublishError) Unwrap() error { return e.Err }

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing %s manifest: %s: %v", e.Kind, e.Stage, e.Err)
}
