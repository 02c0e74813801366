package testing

import (
	"context"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/stretchr/testify/mock"

	"sarpublish.run/internal/release"
)

type BucketProvisionerMock struct {
	mock.Mock
}

func (m *BucketProvisionerMock) Ensure(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)

	return args.Error(0)
}

func (m *BucketProvisionerMock) ApplyPolicy(ctx context.Context, bucket string, policy []byte) error {
	args := m.Called(ctx, bucket, policy)

	return args.Error(0)
}

func (m *BucketProvisionerMock) Upload(ctx context.Context, bucket, key, path string) error {
	args := m.Called(ctx, bucket, key, path)

	return args.Error(0)
}

type ImageBuilderMock struct {
	mock.Mock
}

func (m *ImageBuilderMock) Build(ctx context.Context, contextDir string, image name.Tag) error {
	args := m.Called(ctx, contextDir, image)

	return args.Error(0)
}

type MarketplaceMock struct {
	mock.Mock
}

func (m *MarketplaceMock) Build(ctx context.Context, manifestPath, buildDir string) (string, error) {
	args := m.Called(ctx, manifestPath, buildDir)

	return args.String(0), args.Error(1)
}

func (m *MarketplaceMock) Package(ctx context.Context, in release.PackageInput) (string, error) {
	args := m.Called(ctx, in)

	return args.String(0), args.Error(1)
}

func (m *MarketplaceMock) Publish(ctx context.Context, packagedPath, region string) error {
	args := m.Called(ctx, packagedPath, region)

	return args.Error(0)
}
