package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// IEEEFiles lists the IEEE CSV exports in their fixed processing order.
// Earlier files win when two exports carry the same assignment key.
var IEEEFiles = []string{
	"oui.csv",   // MA-L
	"mam.csv",   // MA-M
	"oui36.csv", // MA-S
	"cid.csv",   // CID
	"iab.csv",   // IAB
}

// Source is one registry export.
type Source struct {
	Name   string
	Reader io.Reader
}

// OpenIEEESources opens the five IEEE exports in dir in processing order.
// The returned closer releases every opened file.
func OpenIEEESources(dir string) ([]Source, io.Closer, error) {
	var (
		sources []Source
		files   multiCloser
	)
	for _, name := range IEEEFiles {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			files.Close()
			return nil, nil, &SourceError{Source: name, Err: err}
		}
		files = append(files, f)
		sources = append(sources, Source{Name: name, Reader: f})
	}
	return sources, files, nil
}

// CompileDir compiles the five IEEE exports found in dir.
func CompileDir(dir string, opts ...Option) (*Table, error) {
	sources, closer, err := OpenIEEESources(dir)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	table, err := New(opts...).Compile(sources...)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", dir, err)
	}
	return table, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var errs []error
	for _, c := range m {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
