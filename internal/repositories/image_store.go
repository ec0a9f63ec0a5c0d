package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImagePrefix is the namespace of post image references.
const ImagePrefix = "posts/"

// BlobStore keeps uploaded post images. The core only persists the returned reference.
type BlobStore interface {
	Store(ctx context.Context, data []byte, filename string) (string, error)
	Open(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// GridFSImageStore implements BlobStore on a MongoDB GridFS bucket.
type GridFSImageStore struct {
	db     *mongo.Database
	bucket string
}

// NewGridFSImageStore creates a store writing to the "images" bucket of db.
func NewGridFSImageStore(db *mongo.Database) *GridFSImageStore {
	return &GridFSImageStore{db: db, bucket: "images"}
}

// openBucket returns a fresh bucket handle carrying ctx's deadline; bucket
// deadlines are per-handle state, so handles are not shared between calls.
func (s *GridFSImageStore) openBucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(dl)
		_ = b.SetWriteDeadline(dl)
	}
	return b, nil
}

// Store uploads data under a fresh reference "posts/<uuid><ext>".
func (s *GridFSImageStore) Store(ctx context.Context, data []byte, filename string) (string, error) {
	b, err := s.openBucket(ctx)
	if err != nil {
		return "", err
	}
	ref := ImagePrefix + uuid.NewString() + strings.ToLower(path.Ext(filename))
	if _, err := b.UploadFromStream(ref, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("upload image %q: %w", filename, err)
	}
	return ref, nil
}

// Open reads the image stored under ref.
func (s *GridFSImageStore) Open(ctx context.Context, ref string) ([]byte, error) {
	b, err := s.openBucket(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := b.DownloadToStreamByName(ref, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("image %q: %w", ref, apperr.ErrNotFound)
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// Delete removes every revision stored under ref. A missing ref is not an error.
func (s *GridFSImageStore) Delete(ctx context.Context, ref string) error {
	b, err := s.openBucket(ctx)
	if err != nil {
		return err
	}
	cur, err := b.Find(bson.M{"filename": ref})
	if err != nil {
		return err
	}
	var files []struct {
		ID interface{} `bson:"_id"`
	}
	if err := cur.All(ctx, &files); err != nil {
		return err
	}
	for _, f := range files {
		if err := b.Delete(f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("delete image %q: %w", ref, err)
		}
	}
	return nil
}
