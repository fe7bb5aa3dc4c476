package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mwantia/catalog/data"
	"github.com/mwantia/catalog/log"
	"github.com/mwantia/catalog/storage"
)

// Accessor materializes dataset contents: streaming tabular objects into
// memory, staging objects to the local filesystem, and writing new
// artifacts back into the bucket.
type Accessor struct {
	client storage.Client
	log    *log.Logger
}

type AccessorOption func(*Accessor)

func WithAccessorLogger(logger *log.Logger) AccessorOption {
	return func(a *Accessor) {
		a.log = logger
	}
}

func NewAccessor(client storage.Client, opts ...AccessorOption) *Accessor {
	accessor := &Accessor{
		client: client,
		log:    log.New("accessor"),
	}

	for _, opt := range opts {
		opt(accessor)
	}

	return accessor
}

// Read streams a single-shaped tabular dataset directly into a table,
// without an intermediate local file.
func (a *Accessor) Read(ctx context.Context, ds *Dataset) (*data.Table, error) {
	if ds.Shape != ShapeSingle {
		return nil, fmt.Errorf("%w: cannot read %s-shaped dataset %s", ErrUnsupportedFormat, ds.Shape, ds.Key())
	}

	if !ds.Format.Tabular() {
		return nil, fmt.Errorf("%w: %s is not a tabular format", ErrUnsupportedFormat, ds.Format)
	}

	reader, err := a.client.Open(ctx, ds.Location)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return data.ReadTable(reader, ds.Format)
}

// Download stages a single-shaped dataset's object into destDir and
// returns the local path. Family and unknown shapes need a concrete
// member to identify one object; use DownloadMember.
func (a *Accessor) Download(ctx context.Context, ds *Dataset, destDir string) (string, error) {
	if ds.Shape != ShapeSingle {
		return "", fmt.Errorf("%w: %s-shaped dataset %s needs a member to download", ErrAmbiguousTarget, ds.Shape, ds.Key())
	}

	return a.fetch(ctx, ds.Location, destDir)
}

// DownloadMember stages one member of a family or unknown-shaped dataset.
// The member may be a full location or a key relative to the dataset's
// prefix; family members must match the dataset's pattern.
func (a *Accessor) DownloadMember(ctx context.Context, ds *Dataset, member, destDir string) (string, error) {
	if ds.Shape == ShapeSingle {
		return a.fetch(ctx, ds.Location, destDir)
	}

	if !strings.Contains(member, "://") {
		member = data.JoinLocation(ds.Location, member)
	}

	if !strings.HasPrefix(member, ds.Location) {
		return "", fmt.Errorf("%w: member %s outside dataset prefix %s", ErrInvalidLocation, member, ds.Location)
	}

	if ds.Shape == ShapeFamily {
		matched, err := path.Match(ds.Pattern, data.BaseName(member))
		if err != nil || !matched {
			return "", fmt.Errorf("%w: member %s does not match pattern %s", ErrInvalidLocation, member, ds.Pattern)
		}
	}

	return a.fetch(ctx, member, destDir)
}

// Members enumerates the current member locations of a family, matched
// live against the bucket rather than the counts recorded at the last
// reconciliation.
func (a *Accessor) Members(ctx context.Context, ds *Dataset) ([]string, error) {
	if ds.Shape != ShapeFamily {
		return nil, fmt.Errorf("%w: %s-shaped dataset %s has no members", ErrUnsupportedFormat, ds.Shape, ds.Key())
	}

	locations, err := a.client.List(ctx, ds.Location)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(locations))
	for _, location := range locations {
		if matched, _ := path.Match(ds.Pattern, data.BaseName(location)); matched {
			members = append(members, location)
		}
	}

	return members, nil
}

// WriteTable serializes a table as CSV to <base>/<owner>/<name>.csv and
// returns the record describing it. The record is not inserted into any
// catalog; the caller decides whether and where to Put it.
func (a *Accessor) WriteTable(ctx context.Context, table *data.Table, owner, name, base string) (*Dataset, error) {
	var buffer bytes.Buffer
	if err := table.Write(&buffer, data.FormatCSV); err != nil {
		return nil, err
	}

	location := data.JoinLocation(base, owner, name+".csv")
	if err := a.client.Put(ctx, location, &buffer, int64(buffer.Len())); err != nil {
		return nil, err
	}

	a.log.Info("Wrote table %s/%s (%d rows) to %s", owner, name, table.NumRows(), location)
	return NewSingleDataset(owner, name, location), nil
}

// WriteFile uploads a local file to <base>/<owner>/<basename> and returns
// the record describing it.
func (a *Accessor) WriteFile(ctx context.Context, localPath, owner, base string) (*Dataset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	location := data.JoinLocation(base, owner, filepath.Base(localPath))
	if err := a.client.Put(ctx, location, file, info.Size()); err != nil {
		return nil, err
	}

	a.log.Info("Uploaded %s to %s", localPath, location)
	return NewSingleDataset(owner, data.Stem(localPath), location), nil
}

func (a *Accessor) fetch(ctx context.Context, location, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	reader, err := a.client.Open(ctx, location)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	localPath := filepath.Join(destDir, data.BaseName(location))
	file, err := os.Create(localPath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(localPath)
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", err
	}

	a.log.Debug("Staged %s to %s", location, localPath)
	return localPath, nil
}
