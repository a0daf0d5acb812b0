package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"furniture-store/core/storage"

	"github.com/minio/minio-go/v7"
)

// OrphanedCart is a saved cart whose owner no longer has an account.
type OrphanedCart struct {
	Object string `json:"object"`
	Email  string `json:"email"`
}

// CheckCarts lists every saved cart under carts/ whose owner is not known.
// Objects that are not "<email>.csv" files, including the folder marker, are ignored.
func CheckCarts(ctx context.Context, client storage.Client, bucket string, known func(email string) bool) ([]OrphanedCart, error) {
	orphaned := []OrphanedCart{}
	opts := minio.ListObjectsOptions{Prefix: "carts/", Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list carts: %w", obj.Err)
		}
		email, ok := strings.CutSuffix(strings.TrimPrefix(obj.Key, "carts/"), ".csv")
		if !ok || email == "" {
			continue
		}
		if !known(email) {
			orphaned = append(orphaned, OrphanedCart{Object: obj.Key, Email: email})
		}
	}
	sort.Slice(orphaned, func(i, j int) bool { return orphaned[i].Object < orphaned[j].Object })
	return orphaned, nil
}
