package release

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"sarpublish.run/internal/constants"
)

// Request is the immutable input of a single release run.
type Request struct {
	AppName         string
	SemanticVersion string
	BucketName      string
	AccountID       string
	Region          string
	AuthorName      string
}

// NewRequest builds a Request from the positional CLI arguments
// app-name semantic-version bucket-name account-id region [author-name].
func NewRequest(args []string) (Request, error) {
	if len(args) < 5 || len(args) > 6 {
		return Request{}, &InputError{
			Reason: fmt.Sprintf("expected 5 or 6 arguments, got %d", len(args)),
		}
	}

	req := Request{
		AppName:         args[0],
		SemanticVersion: args[1],
		BucketName:      args[2],
		AccountID:       args[3],
		Region:          args[4],
		AuthorName:      constants.DefaultAuthorName,
	}
	if len(args) == 6 {
		req.AuthorName = args[5]
	}

	return req, req.Validate()
}

// Validate checks the Request invariants: all fields non-empty and the
// version a valid semantic version.
func (r Request) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"app-name", r.AppName},
		{"semantic-version", r.SemanticVersion},
		{"bucket-name", r.BucketName},
		{"account-id", r.AccountID},
		{"region", r.Region},
		{"author-name", r.AuthorName},
	} {
		if field.value == "" {
			return &InputError{Reason: field.name + " must not be empty"}
		}
	}

	if _, err := semver.StrictNewVersion(r.SemanticVersion); err != nil {
		return &InputError{
			Reason: fmt.Sprintf("semantic-version %q: %v", r.SemanticVersion, err),
		}
	}

	return nil
}
