// Package sam drives the SAM CLI. Build, package and publish are external
// primitives with defined inputs and outputs; this package only shells out
// to them.
package sam

import (
	"context"
	"fmt"
	"path/filepath"

	"sarpublish.run/internal/release"
	"sarpublish.run/internal/shell"
)

// CLI implements release.Marketplace on top of the sam binary.
type CLI struct {
	runner shell.Runner
}

func NewCLI(runner shell.Runner) *CLI {
	return &CLI{runner: runner}
}

// Build resolves and validates the manifest into a build directory,
// returning the path of the built manifest.
func (c *CLI) Build(ctx context.Context, manifestPath, buildDir string) (string, error) {
	err := c.runner.Run(ctx, shell.Command{
		Name: "sam",
		Args: []string{
			"build",
			"--template-file", manifestPath,
			"--build-dir", buildDir,
		},
	})
	if err != nil {
		return "", fmt.Errorf("sam build %s: %w", manifestPath, err)
	}

	return filepath.Join(buildDir, "template.yaml"), nil
}

// Package produces a publishable manifest referencing the storage bucket
// and, when set, the container image repository.
func (c *CLI) Package(ctx context.Context, in release.PackageInput) (string, error) {
	args := []string{
		"package",
		"--template-file", in.ManifestPath,
		"--output-template-file", in.OutputPath,
		"--s3-bucket", in.Bucket,
		"--region", in.Region,
	}
	if in.ImageRepository != "" {
		args = append(args, "--image-repository", in.ImageRepository)
	}

	if err := c.runner.Run(ctx, shell.Command{Name: "sam", Args: args}); err != nil {
		return "", fmt.Errorf("sam package %s: %w", in.ManifestPath, err)
	}

	return in.OutputPath, nil
}

// Publish registers the packaged manifest with the marketplace for the
// given region.
func (c *CLI) Publish(ctx context.Context, packagedPath, region string) error {
	err := c.runner.Run(ctx, shell.Command{
		Name: "sam",
		Args: []string{
			"publish",
			"--template", packagedPath,
			"--region", region,
		},
	})
	if err != nil {
		return fmt.Errorf("sam publish %s: %w", packagedPath, err)
	}

	return nil
}
