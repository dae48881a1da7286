package store

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

const recordExt = ".json"

// DiskBackend stores one JSON file per record under dir/bucket/
type DiskBackend struct {
	dir string
}

// NewDiskBackend creates a disk backend rooted at dir
func NewDiskBackend(dir string) *DiskBackend {
	return &DiskBackend{dir: dir}
}

// Put writes the record atomically (temp file + rename)
func (d *DiskBackend) Put(ctx context.Context, bucket, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(d.dir, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrapf(err, "store: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return eris.Wrap(err, "store: create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrapf(err, "store: write %s/%s", bucket, id)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "store: close %s/%s", bucket, id)
	}

	if err := os.Rename(tmp.Name(), d.path(bucket, id)); err != nil {
		return eris.Wrapf(err, "store: rename %s/%s", bucket, id)
	}
	return nil
}

// Get reads one record
func (d *DiskBackend) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.path(bucket, id))
	if os.IsNotExist(err) {
		return nil, eris.Wrapf(ErrNotFound, "store: disk %s/%s", bucket, id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: read %s/%s", bucket, id)
	}
	return data, nil
}

// List reads every record file in the bucket. A missing bucket is empty.
func (d *DiskBackend) List(ctx context.Context, bucket string) ([]Entry, error) {
	dir := filepath.Join(d.dir, bucket)
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: list %s", bucket)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, recordExt))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, eris.Wrapf(err, "store: read %s/%s", bucket, id)
		}
		entries = append(entries, Entry{ID: id, Data: data})
	}
	sortEntries(entries)
	return entries, nil
}

// Reset removes the bucket directory
func (d *DiskBackend) Reset(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(d.dir, bucket)); err != nil {
		return eris.Wrapf(err, "store: reset %s", bucket)
	}
	return nil
}

// Close is a no-op
func (d *DiskBackend) Close() error {
	return nil
}

// path escapes id so any string maps to a single file name
func (d *DiskBackend) path(bucket, id string) string {
	return filepath.Join(d.dir, bucket, url.PathEscape(id)+recordExt)
}
