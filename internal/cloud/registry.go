package cloud

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ecr"

	"sarpublish.run/internal/docker"
)

// ECRAPI is the subset of the ECR client needed for registry login.
type ECRAPI interface {
	GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
}

// NewRegistryCredentials returns a docker.CredentialSource backed by ECR
// authorization tokens.
func NewRegistryCredentials(client ECRAPI) *RegistryCredentials {
	return &RegistryCredentials{client: client}
}

type RegistryCredentials struct {
	client ECRAPI
}

// Credentials fetches and decodes an ECR authorization token. The token is
// base64 "user:password".
func (r *RegistryCredentials) Credentials(ctx context.Context) (docker.Credentials, error) {
	out, err := r.client.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return docker.Credentials{}, fmt.Errorf("getting ECR authorization token: %w", err)
	}
	if len(out.AuthorizationData) == 0 || out.AuthorizationData[0].AuthorizationToken == nil {
		return docker.Credentials{}, fmt.Errorf("ECR returned no authorization data")
	}

	raw, err := base64.StdEncoding.DecodeString(*out.AuthorizationData[0].AuthorizationToken)
	if err != nil {
		return docker.Credentials{}, fmt.Errorf("decoding ECR authorization token: %w", err)
	}

	user, password, found := strings.Cut(string(raw), ":")
	if !found {
		return docker.Credentials{}, fmt.Errorf("malformed ECR authorization token")
	}

	return docker.Credentials{Username: user, Password: password}, nil
}
