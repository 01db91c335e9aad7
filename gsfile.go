package casecontrol

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const gsPrefix = "gs://"

// IsGSPath reports whether path points into Google Storage.
func IsGSPath(path string) bool {
	return strings.HasPrefix(path, gsPrefix)
}

// SplitGSPath splits gs://bucket/some/object into its bucket and object name.
func SplitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, gsPrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// JoinPath joins a directory and a file name. Google Storage paths are joined
// with a forward slash regardless of platform.
func JoinPath(dir, name string) string {
	if IsGSPath(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}

	return filepath.Join(ExpandHome(dir), name)
}

// OpenFileOrGS opens a local path or a gs:// path for reading. The client may
// be nil if no gs:// paths are used. Compressed content is transparently
// decompressed.
func OpenFileOrGS(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if !IsGSPath(path) {
		f, err := os.Open(ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}

		return MaybeDecompress(f)
	}

	handle, err := objectHandle(path, client)
	if err != nil {
		return nil, err
	}

	rdr, err := handle.NewReader(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return MaybeDecompress(rdr)
}

// CreateFileOrGS opens a local path or a gs:// path for writing. For gs://
// paths, the object is only committed when the writer is closed without
// error.
func CreateFileOrGS(ctx context.Context, path string, client *storage.Client) (io.WriteCloser, error) {
	if !IsGSPath(path) {
		f, err := os.Create(ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}

		return f, nil
	}

	handle, err := objectHandle(path, client)
	if err != nil {
		return nil, err
	}

	return handle.NewWriter(ctx), nil
}

func objectHandle(path string, client *storage.Client) (*storage.ObjectHandle, error) {
	if client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a google storage client is required for gs:// paths", path))
	}

	bucketName, objectName, err := SplitGSPath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return client.Bucket(bucketName).Object(objectName), nil
}
