// Package assets resolves sign video clips to local paths, copying
// them from the bundled source directory into a cache directory.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Resolver maps video names to cached file paths.
type Resolver struct {
	srcDir   string
	cacheDir string
	log      *logrus.Logger
}

func NewResolver(srcDir, cacheDir string, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{srcDir: srcDir, cacheDir: cacheDir, log: log}
}

// Path returns where a named video lives after Initialize has run.
func (r *Resolver) Path(name string) string {
	return filepath.Join(r.cacheDir, name)
}

// Initialize copies every video from the source directory into the
// cache. A file that fails to copy is logged and skipped; the batch
// keeps going so rounds can still be served with whatever loaded.
func (r *Resolver) Initialize() error {
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create video cache dir: %w", err)
	}
	entries, err := os.ReadDir(r.srcDir)
	if err != nil {
		return fmt.Errorf("read video source dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := r.copyOne(entry.Name()); err != nil {
			r.log.WithError(err).WithField("video", entry.Name()).Error("failed to copy video, skipping")
		}
	}
	return nil
}

func (r *Resolver) copyOne(name string) error {
	dst := r.Path(name)
	if info, err := os.Stat(dst); err == nil && info.Size() > 0 {
		return nil // already cached
	}

	src, err := os.Open(filepath.Join(r.srcDir, name))
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
