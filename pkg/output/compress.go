package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// compressFile writes path into a single-entry deflate archive path+".zip"
// named after the file's base name, then removes path. The original is only
// removed once the archive is complete.
func compressFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", err
	}

	zipPath := path + ".zip"
	tempPath := zipPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if err := writeArchive(out, src, info); err != nil {
		out.Close()
		os.Remove(tempPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	if err := os.Rename(tempPath, zipPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename archive: %w", err)
	}

	src.Close()
	if err := os.Remove(path); err != nil {
		return zipPath, fmt.Errorf("archive written but original not removed: %w", err)
	}
	return zipPath, nil
}

func writeArchive(out io.Writer, src io.Reader, info os.FileInfo) error {
	zw := zip.NewWriter(out)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(info.Name())
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to write archive entry: %w", err)
	}
	return zw.Close()
}
