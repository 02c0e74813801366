package deps

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"sarpublish.run/cmd/sarpublish/rootcmd"
	"sarpublish.run/cmd/sarpublish/versioncmd"
	"sarpublish.run/internal/cloud"
	"sarpublish.run/internal/docker"
	"sarpublish.run/internal/release"
	"sarpublish.run/internal/sam"
	"sarpublish.run/internal/shell"
)

func ProvideIOStreams() rootcmd.IOStreams {
	return rootcmd.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

func ProvideArgs() []string {
	return os.Args[1:]
}

type RootSubCommandResult struct {
	dig.Out

	SubCommand *cobra.Command `group:"rootSubCommands"`
}

func ProvideVersionCmd() RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: versioncmd.NewCmd(),
	}
}

func ProvidePublisherFactory(streams rootcmd.IOStreams, f LogFactory) rootcmd.PublisherFactory {
	return &defaultPublisherFactory{
		streams:    streams,
		logFactory: f,
	}
}

type defaultPublisherFactory struct {
	streams    rootcmd.IOStreams
	logFactory LogFactory
}

func (f *defaultPublisherFactory) Publisher(
	ctx context.Context, req release.Request,
) (rootcmd.Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(req.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	runner := shell.New(f.streams.Out, f.streams.ErrOut)

	return release.NewPipeline(
		cloud.NewBucket(s3.NewFromConfig(cfg), req.Region),
		docker.NewBuilder(runner, cloud.NewRegistryCredentials(ecr.NewFromConfig(cfg))),
		sam.NewCLI(runner),
		release.WithLog{Log: f.logFactory.Logger()},
	), nil
}
