package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	FieldName       = "proof"
	DefaultMaxBytes = 2 << 20
)

var (
	ErrMissing  = errors.New("proof file is required")
	ErrTooLarge = errors.New("proof file is too large")
	ErrNotImage = errors.New("only images are allowed")
)

type ProofPolicy struct {
	MaxBytes int64
	// SniffContent also checks the leading bytes instead of trusting the
	// client's Content-Type alone.
	SniffContent bool
}

func (p ProofPolicy) maxBytes() int64 {
	if p.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return p.MaxBytes
}

// Validate checks fh against the policy. It does not consume the file.
func (p ProofPolicy) Validate(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrMissing
	}
	if fh.Size > p.maxBytes() {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, p.maxBytes())
	}
	if !strings.HasPrefix(strings.ToLower(fh.Header.Get("Content-Type")), "image/") {
		return ErrNotImage
	}
	if !p.SniffContent {
		return nil
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open proof: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("sniff proof: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return ErrNotImage
	}
	return nil
}

// Open returns the file rewound to its first byte.
func Open(fh *multipart.FileHeader) (multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ProofName derives the stored name: proof_<unix millis><original extension>.
func ProofName(now time.Time, original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("proof_%d%s", now.UnixMilli(), ext)
}
