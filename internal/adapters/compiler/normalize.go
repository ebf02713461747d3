package compiler

import (
	"strconv"
	"strings"
)

// EscapeOrganization cleans an organization name into the body of a
// double-quoted Go string literal.
//
// Replacement order matters: backslashes are escaped before newlines are
// turned into \n markers, and the double-space heuristic runs on the
// already escaped text. Trimming happens last, so an escaped trailing
// newline survives.
func EscapeOrganization(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	// The IEEE export flattens line breaks inside names into two spaces.
	s = strings.ReplaceAll(s, "  ", `\n`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.TrimSpace(s)
}

// NormalizeOrganization returns the organization name as it reads at
// runtime, i.e. the decoded value of EscapeOrganization.
func NormalizeOrganization(s string) string {
	escaped := EscapeOrganization(s)
	decoded, err := strconv.Unquote(`"` + escaped + `"`)
	if err != nil {
		// Every backslash is already paired, so this should not happen.
		return unescapeMarkers(escaped)
	}
	return decoded
}

func unescapeMarkers(s string) string {
	r := strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\"`, `"`)
	return r.Replace(s)
}

// NormalizeKey canonicalizes an assignment key.
func NormalizeKey(s string) string {
	return strings.ToUpper(s)
}
