package io

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/merrors"
)

// File is a column file opened for reading
type File interface {
	io.ReadSeeker
	io.Closer
	Size() (int64, error)
	Name() string
}

type osFile struct {
	*os.File
}

func (f osFile) Size() (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return fi.Size(), nil
}

func (f osFile) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	if err != nil && err != io.EOF {
		return n, errors.Wrapf(err, "reading %s", f.File.Name())
	}
	return n, err
}

func (f osFile) Close() error {
	return errors.WithStack(f.File.Close())
}

func OpenOsFile(f *os.File) File {
	return osFile{File: f}
}

// Open opens a column file for reading, a missing file is NotFound
func Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewNotFoundError(path)
		}
		return nil, errors.WithStack(err)
	}
	return OpenOsFile(f), nil
}
