package objstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob" // mem:// for tests
	"gocloud.dev/gcerrors"
)

var ErrNotFound = errors.New("object not found")

// Store keeps report artifacts behind a gocloud blob bucket. The URL decides
// the backend: file:///var/lib/ticketdesk/reports, mem://, s3://bucket, ...
type Store struct {
	bucket *blob.Bucket
}

// Open opens the bucket for urlstr. An empty URL defaults to a local
// directory under data/. file:// directories are created on demand.
func Open(ctx context.Context, urlstr string) (*Store, error) {
	if urlstr == "" {
		urlstr = "file://" + filepath.ToSlash(filepath.Join("data", "reports"))
	}
	if dir, ok := strings.CutPrefix(urlstr, "file://"); ok {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		bucket, err := fileblob.OpenBucket(dir, nil)
		if err != nil {
			return nil, err
		}
		return &Store{bucket: bucket}, nil
	}
	bucket, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, err
	}
	return &Store{bucket: bucket}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

func (s *Store) Close() error { return s.bucket.Close() }

// OpenMem returns an in-memory store for tests.
func OpenMem(ctx context.Context) (*Store, error) {
	return Open(ctx, "mem://")
}
