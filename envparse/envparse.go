// Package envparse interprets the line-oriented output of `sstart run`.
//
// The tool prints one NAME=value pair per line. Anything else on stdout —
// blank lines, # comments, progress noise — is skipped without failing the
// run, so the parser never errors; callers only need to care about how many
// pairs came back.
package envparse

import (
	"regexp"
	"strings"
)

// Var is a single environment variable parsed from tool output.
type Var struct {
	Name  string
	Value string
}

// varline matches an identifier-shaped name followed by the first '='.
// The value is everything after that '=' taken verbatim; it may be empty
// and may contain further '=' characters.
var varline = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// Parse extracts NAME=value pairs from the captured stdout of the tool.
// Lines not matching the pattern contribute nothing. Duplicate names keep
// their first position in the result but the last value wins.
func Parse(output string) []Var {
	var vars []Var
	seen := make(map[string]int)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")

		match := varline.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		name, value := match[1], match[2]
		if idx, ok := seen[name]; ok {
			vars[idx].Value = value
			continue
		}

		seen[name] = len(vars)
		vars = append(vars, Var{Name: name, Value: value})
	}

	return vars
}

// Empty reports whether the tool produced no usable output at all.
// This is a tolerated condition: the run still succeeds with zero variables
// exported, but callers should surface it as a warning.
func Empty(output string) bool {
	return strings.TrimSpace(output) == ""
}
