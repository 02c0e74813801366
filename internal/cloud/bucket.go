// Package cloud holds the AWS-backed implementations of the pipeline's
// external collaborators: the S3 bucket provisioner and the ECR credential
// source.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the bucket provisioner needs.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewBucket returns a bucket provisioner operating in the given region.
func NewBucket(client S3API, region string) *Bucket {
	return &Bucket{client: client, region: region}
}

type Bucket struct {
	client S3API
	region string
}

// Ensure checks whether the bucket exists and is accessible and creates it
// in the target region with private access when it does not. An existing
// bucket is accepted as-is; its region and ownership are not re-verified.
func (b *Bucket) Ensure(ctx context.Context, bucket string) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("checking bucket %s: %w", bucket, err)
	}

	in := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
		ACL:    types.BucketCannedACLPrivate,
	}
	// us-east-1 is the default location and must not be passed as a
	// location constraint.
	if b.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.region),
		}
	}

	if _, err := b.client.CreateBucket(ctx, in); err != nil {
		return fmt.Errorf("creating bucket %s in %s: %w", bucket, b.region, err)
	}

	return nil
}

// ApplyPolicy unconditionally replaces the bucket policy.
func (b *Bucket) ApplyPolicy(ctx context.Context, bucket string, policy []byte) error {
	_, err := b.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(string(policy)),
	})
	if err != nil {
		return fmt.Errorf("applying policy to bucket %s: %w", bucket, err)
	}

	return nil
}

// Upload copies a local file into the bucket at the given key.
func (b *Bucket) Upload(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3://%s/%s: %w", path, bucket, key, err)
	}

	return nil
}
