package oui

import (
	"fmt"
	"sync"

	"github.com/lcalzada-xor/macoui/internal/adapters/registrydata"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the process-wide resolver over the embedded IEEE
// registries. The table is compiled exactly once; a failure means the binary
// was built with broken data and panics.
func Default() *Resolver {
	defaultOnce.Do(func() {
		table, err := registrydata.Compile()
		if err != nil {
			panic(fmt.Sprintf("oui: embedded registry data does not compile: %v", err))
		}
		defaultResolver = NewResolver(table)
	})
	return defaultResolver
}

// Lookup resolves address against the embedded registries.
// Accepts "XX:XX:XX:XX:XX:XX" in any case, bare hex, and prefixes of either
// down to six hex digits.
func Lookup(address string) (domain.Record, bool) {
	return Default().Lookup(address)
}
