// Package mapfile loads colony maps from their line-oriented text format:
//
//	ColonyName dir1=Target1 dir2=Target2 ...
//
// Targets that never get a line of their own are created as edge-less
// colonies, so the resulting graph satisfies the engine's contract that
// every edge references an existing colony.
package mapfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dmdv/ants-simulation/internal/colony"
)

// ParseError describes one rejected map line. All parse errors are fatal:
// no simulation is attempted on a partially loaded map.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("map line %d %q: %s", e.Line, e.Text, e.Reason)
}

type pendingEdge struct {
	line      int
	text      string
	from      string
	direction string
	to        string
}

// Parse reads a map from r and builds the colony graph. It collects all
// line errors joined together rather than stopping at the first one.
func Parse(r io.Reader) (*colony.Graph, error) {
	g := colony.NewGraph()
	defined := make(map[string]struct{})
	var edges []pendingEdge
	var errs []error

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		name := fields[0]
		if strings.Contains(name, "=") {
			errs = append(errs, &ParseError{Line: lineNo, Text: line, Reason: "colony name must come before the tunnel list"})
			continue
		}
		if _, dup := defined[name]; dup {
			errs = append(errs, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("duplicate definition of colony %q", name)})
			continue
		}
		defined[name] = struct{}{}
		g.AddColony(name)

		seenDirs := make(map[string]struct{}, len(fields)-1)
		for _, tok := range fields[1:] {
			dir, target, ok := strings.Cut(tok, "=")
			if !ok || dir == "" || target == "" {
				errs = append(errs, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("malformed tunnel %q (want direction=Target)", tok)})
				continue
			}
			if _, dup := seenDirs[dir]; dup {
				errs = append(errs, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("direction %q listed twice", dir)})
				continue
			}
			seenDirs[dir] = struct{}{}
			edges = append(edges, pendingEdge{line: lineNo, text: line, from: name, direction: dir, to: target})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}

	// Second pass: targets seen only on the right-hand side become
	// edge-less colonies, then all edges are wired.
	for _, e := range edges {
		g.AddColony(e.to)
	}
	for _, e := range edges {
		if err := g.AddEdge(e.from, e.direction, e.to); err != nil {
			errs = append(errs, &ParseError{Line: e.line, Text: e.text, Reason: err.Error()})
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if g.Count() == 0 {
		return nil, &ParseError{Line: 0, Text: "", Reason: "map defines no colonies"}
	}
	return g, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*colony.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()
	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return g, nil
}
