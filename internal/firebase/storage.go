package firebase

import (
	"context"
	"fmt"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
)

// SignBytesFunc signs b as the service account email.
type SignBytesFunc func(ctx context.Context, email string, b []byte) ([]byte, error)

// IAMSigner signs through the IAM credentials API so no private key is needed
// on the host.
func IAMSigner(c *credentials.IamCredentialsClient) SignBytesFunc {
	return func(ctx context.Context, email string, b []byte) ([]byte, error) {
		resp, err := c.SignBlob(ctx, &credentialspb.SignBlobRequest{
			Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", email),
			Payload: b,
		})
		if err != nil {
			return nil, err
		}
		return resp.SignedBlob, nil
	}
}

// Storage is the object storage handle bound to the project's bucket.
type Storage struct {
	Client *storage.Client
	Bucket string

	signerEmail string
	sign        SignBytesFunc
	iam         *credentials.IamCredentialsClient
}

// BucketName falls back to the project's default bucket when none is
// configured.
func BucketName(bucket, projectID string) string {
	if bucket == "" && projectID != "" {
		return projectID + ".appspot.com"
	}
	return bucket
}

func NewStorage(c *storage.Client, bucket, signerEmail string, sign SignBytesFunc) *Storage {
	return &Storage{Client: c, Bucket: bucket, signerEmail: signerEmail, sign: sign}
}

// SignedUploadURL returns a V4 signed PUT URL for objectPath. expires is
// clamped to (0, 1h]; zero or out of range means 15 minutes.
func (s *Storage) SignedUploadURL(ctx context.Context, objectPath, contentType string, expires time.Duration) (string, time.Time, error) {
	if s.Bucket == "" {
		return "", time.Time{}, fmt.Errorf("%w: storage bucket is not set", ErrSigningUnavailable)
	}
	if s.signerEmail == "" || s.sign == nil {
		return "", time.Time{}, fmt.Errorf("%w: SIGNED_URL_SERVICE_ACCOUNT_EMAIL is not set", ErrSigningUnavailable)
	}
	if objectPath == "" {
		return "", time.Time{}, fmt.Errorf("objectPath is required")
	}
	if expires <= 0 || expires > time.Hour {
		expires = 15 * time.Minute
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	exp := time.Now().Add(expires)

	url, err := storage.SignedURL(s.Bucket, objectPath, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "PUT",
		Expires:        exp,
		ContentType:    contentType,
		GoogleAccessID: s.signerEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			return s.sign(ctx, s.signerEmail, b)
		},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign upload url (check service account and permissions): %w", err)
	}
	return url, exp, nil
}

func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	if s.iam != nil {
		_ = s.iam.Close()
	}
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
