package release

import (
	"context"
	"os"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/name"

	"sarpublish.run/internal/constants"
)

// BucketProvisioner manages the object-storage bucket backing the
// marketplace entries.
type BucketProvisioner interface {
	// Ensure makes the bucket exist and be reachable. It is idempotent
	// and a no-op when the bucket is already accessible.
	Ensure(ctx context.Context, bucket string) error
	// ApplyPolicy unconditionally (re)applies the bucket policy document.
	ApplyPolicy(ctx context.Context, bucket string, policy []byte) error
	// Upload copies a local file into the bucket at the given key.
	Upload(ctx context.Context, bucket, key, path string) error
}

// ImageBuilder authenticates against the container registry and builds the
// forwarder image from the staged workspace.
type ImageBuilder interface {
	Build(ctx context.Context, contextDir string, image name.Tag) error
}

// PackageInput parameterizes the package step of one sub-pipeline.
type PackageInput struct {
	ManifestPath string
	OutputPath   string
	Bucket       string
	Region       string
	// ImageRepository is only set for the application manifest, which
	// packages against the container image repository.
	ImageRepository string
}

// Marketplace is the build/package/publish surface of the serverless
// application repository. The primitives are external operations; they are
// consumed, never reimplemented.
type Marketplace interface {
	Build(ctx context.Context, manifestPath, buildDir string) (builtPath string, err error)
	Package(ctx context.Context, in PackageInput) (packagedPath string, err error)
	Publish(ctx context.Context, packagedPath, region string) error
}

// PublishResult records the outcome of one sub-pipeline.
type PublishResult struct {
	Kind         ManifestKind
	BuiltPath    string
	PackagedPath string
	Published    bool
}

// RunOptions locate the inputs of a release run on disk.
type RunOptions struct {
	// SourceDir is the root of the application source tree.
	SourceDir string
	// TemplatesDir holds the three manifest templates.
	TemplatesDir string
}

type PipelineConfig struct {
	Log   logr.Logger
	Stage StageSpec
}

func (c *PipelineConfig) Option(opts ...PipelineOption) {
	for _, opt := range opts {
		opt.ConfigurePipeline(c)
	}
}

func (c *PipelineConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}

	if c.Stage.Files == nil && c.Stage.Dirs == nil {
		c.Stage = DefaultStageSpec()
	}
}

type PipelineOption interface {
	ConfigurePipeline(*PipelineConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigurePipeline(c *PipelineConfig) {
	c.Log = w.Log
}

type WithStageSpec struct{ Stage StageSpec }

func (w WithStageSpec) ConfigurePipeline(c *PipelineConfig) {
	c.Stage = w.Stage
}

// NewPipeline assembles the release pipeline from its external
// collaborators.
func NewPipeline(
	bucket BucketProvisioner, images ImageBuilder, market Marketplace,
	opts ...PipelineOption,
) *Pipeline {
	var cfg PipelineConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Pipeline{
		cfg:    cfg,
		bucket: bucket,
		images: images,
		market: market,
	}
}

// Pipeline runs a release end to end: stage, provision, build, render,
// publish. Execution is strictly sequential and fail-fast; the first error
// aborts everything that remains, while workspace teardown is bound to
// every exit path.
type Pipeline struct {
	cfg    PipelineConfig
	bucket BucketProvisioner
	images ImageBuilder
	market Marketplace
}

// Publish executes one release run for the given request. There is no
// rollback of already-published artifacts: an aborted run may leave earlier
// sub-pipelines live while later ones never ran.
func (p *Pipeline) Publish(ctx context.Context, req Request, opts RunOptions) error {
	if err := req.Validate(); err != nil {
		return err
	}

	ws, err := NewWorkspace()
	if err != nil {
		return err
	}
	defer ws.Remove()

	p.cfg.Log.Info("staging application sources", "workspace", ws.Dir(), "source", opts.SourceDir)
	if err := ws.Stage(opts.SourceDir, p.cfg.Stage); err != nil {
		return err
	}

	if err := p.provisionBucket(ctx, req, ws); err != nil {
		return err
	}

	image, err := ImageReference(req)
	if err != nil {
		return err
	}

	p.cfg.Log.Info("building container image", "image", image.Name(), "platform", constants.ImagePlatform)
	if err := p.images.Build(ctx, ws.ApplicationDir(), image); err != nil {
		return &BuildError{Image: image.Name(), Err: err}
	}

	p.cfg.Log.Info("rendering manifests", "templates", opts.TemplatesDir)
	manifests, err := RenderAll(req, ws, opts.TemplatesDir)
	if err != nil {
		return err
	}

	for _, manifest := range manifests {
		if _, err := p.publishManifest(ctx, req, ws, manifest, image); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) provisionBucket(ctx context.Context, req Request, ws *Workspace) error {
	p.cfg.Log.Info("provisioning bucket", "bucket", req.BucketName, "region", req.Region)
	if err := p.bucket.Ensure(ctx, req.BucketName); err != nil {
		return &ProvisioningError{Bucket: req.BucketName, Err: err}
	}

	policy, err := BucketPolicy(req.BucketName, req.AccountID)
	if err != nil {
		return &ProvisioningError{Bucket: req.BucketName, Err: err}
	}
	if err := os.WriteFile(ws.Path("bucket-policy.json"), policy, 0o644); err != nil {
		return &ProvisioningError{Bucket: req.BucketName, Err: err}
	}

	if err := p.bucket.ApplyPolicy(ctx, req.BucketName, policy); err != nil {
		return &ProvisioningError{Bucket: req.BucketName, Err: err}
	}

	return nil
}

// publishManifest runs one sub-pipeline: build, package, publish. The
// top-level template is additionally copied into the bucket at a fixed key
// so consumers can fetch it directly.
func (p *Pipeline) publishManifest(
	ctx context.Context, req Request, ws *Workspace, manifest Manifest, image name.Tag,
) (PublishResult, error) {
	result := PublishResult{Kind: manifest.Kind}
	log := p.cfg.Log.WithValues("manifest", string(manifest.Kind))

	log.Info("building manifest")
	builtPath, err := p.market.Build(ctx, manifest.Path, ws.Path("build", string(manifest.Kind)))
	if err != nil {
		return result, &PublishError{Kind: manifest.Kind, Stage: "build", Err: err}
	}
	result.BuiltPath = builtPath

	in := PackageInput{
		ManifestPath: builtPath,
		OutputPath:   ws.Path(string(manifest.Kind) + ".packaged.yaml"),
		Bucket:       req.BucketName,
		Region:       req.Region,
	}
	if manifest.Kind == ManifestApplication {
		in.ImageRepository = image.Context().Name()
	}

	log.Info("packaging manifest", "bucket", req.BucketName)
	packagedPath, err := p.market.Package(ctx, in)
	if err != nil {
		return result, &PublishError{Kind: manifest.Kind, Stage: "package", Err: err}
	}
	result.PackagedPath = packagedPath

	log.Info("publishing manifest", "region", req.Region)
	if err := p.market.Publish(ctx, packagedPath, req.Region); err != nil {
		return result, &PublishError{Kind: manifest.Kind, Stage: "publish", Err: err}
	}
	result.Published = true

	if manifest.Kind == ManifestTemplate {
		log.Info("uploading packaged template", "key", constants.PackagedTemplateKey)
		err := p.bucket.Upload(ctx, req.BucketName, constants.PackagedTemplateKey, packagedPath)
		if err != nil {
			return result, &PublishError{Kind: manifest.Kind, Stage: "upload", Err: err}
		}
	}

	return result, nil
}
