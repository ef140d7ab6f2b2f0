package transform

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

const (
	artifactFormat  = "column-transform"
	artifactVersion = 1
)

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

type envelope struct {
	Format    string
	Version   int
	Transform *ColumnTransformer
}

// SaveOptions control how an artifact is written
type SaveOptions struct {
	Compress bool // xz-compress the gob stream
}

// Encode writes a fitted transform to w
func Encode(w io.Writer, ct *ColumnTransformer, opts SaveOptions) error {
	if !ct.Fitted {
		return ErrNotFitted
	}
	env := envelope{Format: artifactFormat, Version: artifactVersion, Transform: ct}

	if !opts.Compress {
		return gob.NewEncoder(w).Encode(&env)
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if err := gob.NewEncoder(xw).Encode(&env); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}

// Decode reads a transform written by Encode, compressed or not
func Decode(r io.Reader) (*ColumnTransformer, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, err := br.Peek(len(xzMagic)); err == nil && bytes.Equal(head, xzMagic) {
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		src = xr
	}

	var env envelope
	if err := gob.NewDecoder(src).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArtifact, err)
	}
	if env.Format != artifactFormat || env.Transform == nil {
		return nil, ErrBadArtifact
	}
	if env.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadArtifact, env.Version)
	}
	if !env.Transform.Fitted {
		return nil, ErrNotFitted
	}
	return env.Transform, nil
}

// Save writes the transform to path, replacing any previous artifact.
// Parent directories are created as needed.
func Save(path string, ct *ColumnTransformer, opts SaveOptions) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, ct, opts); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode transform: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace artifact: %w", err)
	}
	return nil
}

// Load reads a transform previously written by Save
func Load(path string) (*ColumnTransformer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	ct, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return ct, nil
}
