package secrets

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GCPSource reads secret versions from Google Secret Manager.
type GCPSource struct {
	client *secretmanager.Client
}

var _ Source = (*GCPSource)(nil)

// NewGCPSource creates a Secret Manager backed source using ambient
// credentials.
func NewGCPSource(ctx context.Context) (*GCPSource, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &GCPSource{client: client}, nil
}

// AccessSecretVersion fetches the payload of the named secret version.
func (s *GCPSource) AccessSecretVersion(ctx context.Context, resourceName string) ([]byte, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return nil, fmt.Errorf("%w: %s does not exist, create it with `gcloud secrets create`", ErrSecretNotFound, resourceName)
		case codes.PermissionDenied:
			return nil, fmt.Errorf("%w: grant roles/secretmanager.secretAccessor on %s to the service account", ErrSecretAccessDenied, resourceName)
		}
		return nil, fmt.Errorf("access secret version %s: %w", resourceName, err)
	}
	return resp.GetPayload().GetData(), nil
}

// Close releases the underlying gRPC connection.
func (s *GCPSource) Close() error {
	return s.client.Close()
}
