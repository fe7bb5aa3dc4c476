package persist

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/mwantia/catalog"
)

// File layout: 4-byte magic, 1 version byte, zstd-compressed CBOR
// snapshot. The magic and version are protocol constants; bumping the
// version invalidates older readers.
var fileMagic = []byte("DCAT")

const fileVersion byte = 1

// FileStore persists a catalog as a versioned binary blob at one local
// path. Saves write to a temp file and rename, so a crash mid-write never
// corrupts the previous durable state.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: no catalog at %s", catalog.ErrNotFound, fs.path)
	}
	if err != nil {
		return nil, err
	}

	if len(blob) < len(fileMagic)+1 || !bytes.Equal(blob[:len(fileMagic)], fileMagic) {
		return nil, fmt.Errorf("%w: %s is not a catalog file", catalog.ErrCorruptIndex, fs.path)
	}

	version := blob[len(fileMagic)]
	if version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d in %s", catalog.ErrCorruptIndex, version, fs.path)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	encoded, err := decoder.DecodeAll(blob[len(fileMagic)+1:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrCorruptIndex, err)
	}

	var snap snapshot
	if err := decMode.Unmarshal(encoded, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrCorruptIndex, err)
	}

	return snap.restore(), nil
}

func (fs *FileStore) Save(ctx context.Context, cat *catalog.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := encMode.Marshal(takeSnapshot(cat))
	if err != nil {
		return err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}

	blob := make([]byte, 0, len(fileMagic)+1+len(encoded))
	blob = append(blob, fileMagic...)
	blob = append(blob, fileVersion)
	blob = encoder.EncodeAll(encoded, blob)
	if err := encoder.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return err
	}

	temp := fmt.Sprintf("%s.%s.tmp", fs.path, uuid.NewString())
	if err := os.WriteFile(temp, blob, 0o644); err != nil {
		return err
	}

	if err := os.Rename(temp, fs.path); err != nil {
		os.Remove(temp)
		return err
	}

	return nil
}
