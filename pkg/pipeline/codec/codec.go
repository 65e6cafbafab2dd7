// Package codec loads pipeline descriptions from, and writes them back to, a
// JSON document on a filesystem.
//
// Dump rewrites the whole document in place. There is no locking and no
// atomic rename: two processes updating the same document race, and the last
// write wins.
package codec

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/askiada/go-stepparams/pkg/pipeline/model"
)

const defaultFileMode os.FileMode = 0o644

// DocumentReadError is returned when a document cannot be read or does not
// decode to a pipeline.
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("unable to read pipeline document %s: %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// DocumentWriteError is returned when a pipeline cannot be encoded or written.
type DocumentWriteError struct {
	Path string
	Err  error
}

func (e *DocumentWriteError) Error() string {
	return fmt.Sprintf("unable to write pipeline document %s: %v", e.Path, e.Err)
}

func (e *DocumentWriteError) Unwrap() error {
	return e.Err
}

// Codec reads and writes pipeline documents.
type Codec struct {
	fs afero.Fs
}

// New creates a codec working on fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) *Codec {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Codec{fs: fs}
}

// Load reads the document at path and builds the pipeline it describes.
func (c *Codec) Load(path string) (*model.Pipeline, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Err: err}
	}

	p, err := model.FromDocument(data)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Err: err}
	}

	return p, nil
}

// Dump encodes p and overwrites the document at path with it. The file is
// only opened once encoding succeeded.
func (c *Codec) Dump(p *model.Pipeline, path string) error {
	if p == nil {
		return &DocumentWriteError{Path: path, Err: errors.New("pipeline must be set")}
	}

	data, err := p.ToDocument()
	if err != nil {
		return &DocumentWriteError{Path: path, Err: err}
	}

	mode := defaultFileMode
	if info, err := c.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	err = afero.WriteFile(c.fs, path, data, mode)
	if err != nil {
		return &DocumentWriteError{Path: path, Err: errors.Wrap(err, "unable to write file")}
	}

	return nil
}
