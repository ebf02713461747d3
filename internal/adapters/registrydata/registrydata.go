// Package registrydata embeds the IEEE registry CSV exports compiled into
// every binary. Refresh the files with tools/oui/ouifetch.
package registrydata

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
)

//go:embed *.csv
var files embed.FS

// Sources returns the embedded exports in processing order.
func Sources() ([]compiler.Source, error) {
	sources := make([]compiler.Source, 0, len(compiler.IEEEFiles))
	for _, name := range compiler.IEEEFiles {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("embedded registry %s: %w", name, err)
		}
		sources = append(sources, compiler.Source{Name: name, Reader: bytes.NewReader(data)})
	}
	return sources, nil
}

// Compile builds a table from the embedded exports.
func Compile(opts ...compiler.Option) (*compiler.Table, error) {
	sources, err := Sources()
	if err != nil {
		return nil, err
	}
	return compiler.New(opts...).Compile(sources...)
}
