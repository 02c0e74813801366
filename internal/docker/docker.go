// Package docker builds the forwarder container image by shelling out to
// the docker CLI. Image internals beyond "build an image from a context and
// tag" are out of scope.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"sarpublish.run/internal/constants"
	"sarpublish.run/internal/shell"
)

// Credentials authenticate a docker login against one registry.
type Credentials struct {
	Username string
	Password string
}

// CredentialSource yields registry credentials for the publishing account.
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// NewBuilder returns a Builder that logs into the image registry and builds
// for the fixed target platform.
func NewBuilder(runner shell.Runner, creds CredentialSource) *Builder {
	return &Builder{
		runner:   runner,
		creds:    creds,
		platform: constants.ImagePlatform,
	}
}

type Builder struct {
	runner   shell.Runner
	creds    CredentialSource
	platform string
}

// Build authenticates against the registry of the image reference, then
// builds and tags the image from the given context directory.
func (b *Builder) Build(ctx context.Context, contextDir string, image name.Tag) error {
	creds, err := b.creds.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("registry credentials: %w", err)
	}

	login := shell.Command{
		Name:  "docker",
		Args:  []string{"login", "--username", creds.Username, "--password-stdin", image.RegistryStr()},
		Stdin: strings.NewReader(creds.Password),
	}
	if err := b.runner.Run(ctx, login); err != nil {
		return fmt.Errorf("docker login %s: %w", image.RegistryStr(), err)
	}

	build := shell.Command{
		Name: "docker",
		Args: []string{
			"buildx", "build",
			"--platform", b.platform,
			"--tag", image.Name(),
			"--load",
			contextDir,
		},
	}
	if err := b.runner.Run(ctx, build); err != nil {
		return fmt.Errorf("docker build %s: %w", image.Name(), err)
	}

	return nil
}
