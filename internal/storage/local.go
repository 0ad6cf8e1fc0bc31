package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalURLPrefix is where the router mounts the upload directory.
const LocalURLPrefix = "/uploads"

var ErrInvalidName = errors.New("storage: invalid object name")

type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("storage/local: root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Local) Root() string { return d.root }

// path rejects names that would escape the root.
func (d *Local) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(d.root, name), nil
}

func (d *Local) Put(ctx context.Context, name string, r io.Reader) error {
	full, err := d.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return fmt.Errorf("storage/local: close %s: %w", name, err)
	}
	return nil
}

func (d *Local) URL(name string) string {
	return d.baseURL + "/" + name
}

func (d *Local) Delete(_ context.Context, name string) error {
	full, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", name, err)
	}
	return nil
}
