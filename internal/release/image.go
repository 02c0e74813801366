package release

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
)

// ImageReference composes the fully qualified ECR image reference
// <account>.dkr.ecr.<region>.amazonaws.com/<app>:<version> and validates it.
func ImageReference(req Request) (name.Tag, error) {
	raw := fmt.Sprintf(
		"%s.dkr.ecr.%s.amazonaws.com/%s:%s",
		req.AccountID, req.Region, req.AppName, req.SemanticVersion,
	)

	tag, err := name.NewTag(raw, name.StrictValidation)
	if err != nil {
		return name.Tag{}, &BuildError{Image: raw, Err: err}
	}

	return tag, nil
}
