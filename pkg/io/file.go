package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

// Stdio is the path that means standard input or output.
const Stdio = "-"

// ReadInput reads the document at path, or stdin when path is "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	r := stdin
	if path != Stdio {
		f, err := os.Open(path)
		if err != nil {
			return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidPath, err, "open %s", path)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, pipeline.MaxInput+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > pipeline.MaxInput {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "%s is larger than %d bytes", path, pipeline.MaxInput)
	}
	return data, nil
}

// WriteOutput writes data to path atomically, or to stdout when path is
// "-" or empty.
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == Stdio {
		_, err := stdout.Write(data)
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return cwerrors.Wrap(cwerrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
