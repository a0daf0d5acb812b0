package cart

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"furniture-store/core/apperror"
	"furniture-store/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectName is where the cart of email is saved.
func ObjectName(email string) string {
	return "carts/" + email + ".csv"
}

// Store saves carts as CSV objects.
type Store struct {
	client storage.Client
	bucket string
}

// NewStore creates a Store writing to bucket.
func NewStore(client storage.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Save uploads c and returns the object name.
func (s *Store) Save(ctx context.Context, c *Cart) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return "", fmt.Errorf("failed to encode cart: %w", err)
	}
	name := ObjectName(c.Owner())
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return name, nil
}

// Load reads the saved rows of email.
func (s *Store) Load(ctx context.Context, email string) ([]Row, error) {
	name := ObjectName(email)
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.readError(name, email, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.readError(name, email, err)
	}
	return Decode(bytes.NewReader(raw))
}

func (s *Store) readError(name, email string, err error) error {
	if storage.ErrNoSuchKey(err) {
		return apperror.NotFound("no saved cart for %s", email)
	}
	return fmt.Errorf("failed to read %s: %w", name, err)
}
