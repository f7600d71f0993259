package extract

import (
	"io"
	"os"
)

// Spool copies r into a uniquely named file under dir and hands its path to fn.
// The file is removed on every return path.
func Spool(dir, ext string, r io.Reader, fn func(path string) error) error {
	f, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return fn(path)
}
