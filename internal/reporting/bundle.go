package reporting

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// WriteBundle archives the artifact directory into a zstd-compressed
// tarball at path, for upload from CI. Entry names are relative to outDir.
func WriteBundle(outDir, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating bundle %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	walkErr := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		// The bundle itself may live inside the output directory.
		if same, sameErr := sameFile(p, path); sameErr == nil && same {
			return nil
		}

		rel, relErr := filepath.Rel(outDir, p)
		if relErr != nil {
			return relErr
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		hdr, hdrErr := tar.FileInfoHeader(info, "")
		if hdrErr != nil {
			return hdrErr
		}
		hdr.Name = filepath.ToSlash(rel)
		if writeErr := tw.WriteHeader(hdr); writeErr != nil {
			return writeErr
		}

		src, openErr := os.Open(p)
		if openErr != nil {
			return openErr
		}
		defer src.Close()

		_, copyErr := io.Copy(tw, src)
		return copyErr
	})
	if walkErr != nil {
		return fmt.Errorf("archiving %s: %w", outDir, walkErr)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing zstd stream: %w", err)
	}
	return nil
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
