package utils

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"
	storage "github.com/supabase-community/storage-go"
)

// SupabaseStorage keeps note attachments and synthesized audio in one bucket.
type SupabaseStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func NewSupabaseStorage(supabaseURL, key, bucket string) *SupabaseStorage {
	base := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStorage{
		client:  storage.NewClient(base+"/storage/v1", key, nil),
		baseURL: base,
		bucket:  bucket,
	}
}

// Upload writes data at objectPath and returns its public URL.
func (s *SupabaseStorage) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("supabase upload %s: %w", objectPath, err)
	}
	return s.PublicURL(objectPath), nil
}

func (s *SupabaseStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

// Delete removes the object behind a public URL produced by Upload.
func (s *SupabaseStorage) Delete(ctx context.Context, publicURL string) error {
	if publicURL == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bucket, object, err := ObjectFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	if _, err := s.client.RemoveFile(bucket, []string{object}); err != nil {
		return fmt.Errorf("supabase delete %s: %w", object, err)
	}
	return nil
}

// ObjectFromPublicURL splits a ".../storage/v1/object/[public/]<bucket>/<path>"
// URL into bucket and object path.
func ObjectFromPublicURL(publicURL string) (string, string, error) {
	const marker = "/storage/v1/object/"
	idx := strings.Index(publicURL, marker)
	if idx == -1 {
		return "", "", fmt.Errorf("not a storage object url: %s", publicURL)
	}

	rest := publicURL[idx+len(marker):]
	rest = strings.TrimPrefix(rest, "public/")
	if q := strings.Index(rest, "?"); q != -1 {
		rest = rest[:q]
	}

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse bucket/object from url: %s", publicURL)
	}
	object := parts[1]
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}
	return parts[0], object, nil
}

// ObjectPath builds "<folder>/<owner>/<slug>-<id><ext>". An empty slug falls
// back to "file".
func ObjectPath(folder, owner, title, id, ext string) string {
	name := slug.Make(title)
	if name == "" {
		name = "file"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(folder, owner, fmt.Sprintf("%s-%s%s", name, id, strings.ToLower(ext)))
}
