package parser

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

// target maps an expected source member to the element tag its records
// live under. Member files are matched by case-insensitive substring.
type target struct {
	pattern string
	tag     string
}

var targets = []target{
	{"INMUEBLES", "Inmueble"},
	{"DEMANDAS", "Demanda"},
	{"OPERACIONES", "Operacion"},
	{"USUARIOS", "Usuario"}, // optional, unused by the pipeline
}

// RawTables holds the raw record sets extracted from one source, one per
// domain. A nil slice means the source had no member for that domain;
// downstream stages turn absent domains into empty tables.
type RawTables struct {
	Listings     []models.RawRecord
	Demands      []models.RawRecord
	Transactions []models.RawRecord
	Users        []models.RawRecord
}

func (t *RawTables) assign(pattern string, records []models.RawRecord) {
	switch pattern {
	case "INMUEBLES":
		t.Listings = records
	case "DEMANDAS":
		t.Demands = records
	case "OPERACIONES":
		t.Transactions = records
	case "USUARIOS":
		t.Users = records
	}
}

// Loader resolves domain members inside a ZIP archive or a folder and
// extracts their records.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadZip reads an in-memory ZIP archive and extracts the raw tables for
// every domain member it contains. It fails with *SourceNotFoundError when
// no member matches any domain pattern, and with *ParseError when a
// matched member is not well-formed XML.
func (l *Loader) LoadZip(data []byte) (*RawTables, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{Member: "archive", Err: err}
	}

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}

	tables := &RawTables{}
	found := 0
	for _, tgt := range targets {
		member := l.pickMember(names, tgt.pattern)
		if member == "" {
			continue
		}

		f, err := zr.Open(member)
		if err != nil {
			return nil, &ParseError{Member: member, Err: err}
		}
		records, err := ExtractRecords(f, tgt.tag)
		f.Close()
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Member = member
			}
			return nil, err
		}

		tables.assign(tgt.pattern, records)
		found++
	}

	if found == 0 {
		return nil, &SourceNotFoundError{Source: "ZIP archive"}
	}
	return tables, nil
}

// LoadFolder reads loose XML files from a folder, resolving members the
// same way as LoadZip but against the directory listing.
func (l *Loader) LoadFolder(path string) (*RawTables, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &SourceNotFoundError{Source: path}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		names = append(names, e.Name())
	}

	tables := &RawTables{}
	found := 0
	for _, tgt := range targets {
		member := l.pickMember(names, tgt.pattern)
		if member == "" {
			continue
		}

		f, err := os.Open(filepath.Join(path, member))
		if err != nil {
			return nil, &ParseError{Member: member, Err: err}
		}
		records, err := ExtractRecords(f, tgt.tag)
		f.Close()
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Member = member
			}
			return nil, err
		}

		tables.assign(tgt.pattern, records)
		found++
	}

	if found == 0 {
		return nil, &SourceNotFoundError{Source: path}
	}
	return tables, nil
}

// pickMember returns the first name containing the pattern
// (case-insensitive), in namelist order. When several names match the
// choice is ambiguous, so the ignored ones are flagged in the log.
func (l *Loader) pickMember(names []string, pattern string) string {
	p := strings.ToLower(pattern)

	var matches []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), p) {
			matches = append(matches, name)
		}
	}

	if len(matches) == 0 {
		return ""
	}
	if len(matches) > 1 {
		l.logger.Warn("[loader] %d files match %q — using %q, ignoring %v",
			len(matches), pattern, matches[0], matches[1:])
	}
	return matches[0]
}
