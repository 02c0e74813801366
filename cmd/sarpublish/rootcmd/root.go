package rootcmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/dig"

	"sarpublish.run/internal/release"
	"sarpublish.run/internal/version"
)

type Params struct {
	dig.In

	Streams          IOStreams
	Args             []string
	PublisherFactory PublisherFactory
	SubCommands      []*cobra.Command `group:"rootSubCommands"`
}

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Publisher runs one release end to end.
type Publisher interface {
	Publish(ctx context.Context, req release.Request, opts release.RunOptions) error
}

// PublisherFactory builds a Publisher for one request. Construction is
// deferred until arguments are validated so that a usage error causes no
// external side effects.
type PublisherFactory interface {
	Publisher(ctx context.Context, req release.Request) (Publisher, error)
}

func ProvideRootCmd(params Params) *cobra.Command {
	const (
		rootUse   = "sarpublish app-name semantic-version bucket-name account-id region [author-name]"
		rootShort = "publish the forwarder macro, application and template to the serverless application repository"
		rootLong  = "stages the forwarder sources into a disposable workspace, builds the container image, " +
			"renders the three SAM manifests and publishes them in order, backed by the given S3 bucket."
	)

	cmd := &cobra.Command{
		Use:          rootUse,
		Short:        rootShort,
		Long:         rootLong,
		Version:      version.Get().ApplicationVersion,
		SilenceUsage: true,
		Args:         cobra.RangeArgs(5, 6),
	}
	cmd.SetIn(params.Streams.In)
	cmd.SetOut(params.Streams.Out)
	cmd.SetErr(params.Streams.ErrOut)
	cmd.SetArgs(params.Args)

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req, err := release.NewRequest(args)
		if err != nil {
			return err
		}

		publisher, err := params.PublisherFactory.Publisher(cmd.Context(), req)
		if err != nil {
			return err
		}

		return publisher.Publish(cmd.Context(), req, release.RunOptions{
			SourceDir:    opts.SourceDir,
			TemplatesDir: opts.TemplatesDir,
		})
	}

	for _, sub := range params.SubCommands {
		cmd.AddCommand(sub)
	}

	return cmd
}

type options struct {
	SourceDir    string
	TemplatesDir string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.SourceDir,
		"source",
		".",
		"Root of the application source tree to stage.",
	)
	flags.StringVar(
		&o.TemplatesDir,
		"templates",
		"templates",
		"Directory holding the macro, application and template manifest templates.",
	)
}
