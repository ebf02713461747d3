package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

const domainImport = "github.com/lcalzada-xor/macoui/internal/core/domain"

var registryIdent = map[domain.Registry]string{
	domain.RegistryMAL: "domain.RegistryMAL",
	domain.RegistryMAM: "domain.RegistryMAM",
	domain.RegistryMAS: "domain.RegistryMAS",
	domain.RegistryCID: "domain.RegistryCID",
	domain.RegistryIAB: "domain.RegistryIAB",
}

// WriteGoSource writes table as a gofmt'd Go file in package pkg declaring
// a read-only map named varName.
func WriteGoSource(w io.Writer, pkg, varName string, t *Table) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Code generated by ouicompile. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import %q\n\n", domainImport)
	fmt.Fprintf(&buf, "// %s maps an assignment key to its registry record (%d entries).\n", varName, t.Len())
	fmt.Fprintf(&buf, "var %s = map[string]domain.Record{\n", varName)
	for _, r := range t.Records() {
		ident, ok := registryIdent[r.Registry()]
		if !ok {
			return fmt.Errorf("%w: %v", domain.ErrUnknownRegistry, r.Registry())
		}
		fmt.Fprintf(&buf, "%s: domain.NewRecord(%s, %s, %s),\n",
			strconv.Quote(r.Key()), ident, strconv.Quote(r.Key()), strconv.Quote(r.Organization()))
	}
	buf.WriteString("}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}
