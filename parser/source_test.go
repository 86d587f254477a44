package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"inmo-pipeline/utils"
)

func newTestLoader() *Loader { return NewLoader(utils.NewLogger()) }

func buildZip(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const operacionesXML = `<Operaciones>
  <Operacion>
    <fecha>01/03/2025</fecha>
    <vendedor>Ana</vendedor>
    <estado>Firmada</estado>
  </Operacion>
</Operaciones>`

func TestLoadZipResolvesMembers(t *testing.T) {
	data := buildZip(t, map[string]string{
		"export/inmuebles.xml":   `<r><Inmueble><fechaing>01/01/2025</fechaing></Inmueble></r>`,
		"export/OPERACIONES.xml": operacionesXML,
	})

	tables, err := newTestLoader().LoadZip(data)
	if err != nil {
		t.Fatalf("LoadZip returned error: %v", err)
	}
	if len(tables.Listings) != 1 {
		t.Errorf("Listings: got %d records, want 1", len(tables.Listings))
	}
	if len(tables.Transactions) != 1 {
		t.Errorf("Transactions: got %d records, want 1", len(tables.Transactions))
	}
	if tables.Demands != nil {
		t.Errorf("Demands should be absent (nil), got %d records", len(tables.Demands))
	}
}

func TestLoadZipCaseInsensitiveSubstring(t *testing.T) {
	data := buildZip(t, map[string]string{
		"2025_DeMaNdAs_export.xml": `<r><Demanda><captador>Ana</captador></Demanda></r>`,
	})

	tables, err := newTestLoader().LoadZip(data)
	if err != nil {
		t.Fatalf("LoadZip returned error: %v", err)
	}
	if len(tables.Demands) != 1 {
		t.Errorf("Demands: got %d records, want 1", len(tables.Demands))
	}
}

func TestLoadZipNoDomainFiles(t *testing.T) {
	data := buildZip(t, map[string]string{"readme.txt": "hola"})

	_, err := newTestLoader().LoadZip(data)
	var snf *SourceNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("expected *SourceNotFoundError, got %v", err)
	}
}

func TestLoadZipBadArchive(t *testing.T) {
	_, err := newTestLoader().LoadZip([]byte("definitely not a zip"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoadZipMalformedMember(t *testing.T) {
	data := buildZip(t, map[string]string{
		"OPERACIONES.xml": `<Operaciones><Operacion><fecha>01/03/2025`,
	})

	_, err := newTestLoader().LoadZip(data)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Member != "OPERACIONES.xml" {
		t.Errorf("ParseError.Member: got %q, want %q", pe.Member, "OPERACIONES.xml")
	}
}

func TestLoadFolder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("OPERACIONES.xml", operacionesXML)
	write("notas.txt", "ignored")

	tables, err := newTestLoader().LoadFolder(dir)
	if err != nil {
		t.Fatalf("LoadFolder returned error: %v", err)
	}
	if len(tables.Transactions) != 1 {
		t.Errorf("Transactions: got %d records, want 1", len(tables.Transactions))
	}
	if got := tables.Transactions[0].Get("vendedor"); got != "Ana" {
		t.Errorf("vendedor: got %q, want %q", got, "Ana")
	}
}

func TestLoadFolderMissing(t *testing.T) {
	_, err := newTestLoader().LoadFolder(filepath.Join(t.TempDir(), "nope"))
	var snf *SourceNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("expected *SourceNotFoundError, got %v", err)
	}
}

func TestPickMemberFirstMatchWins(t *testing.T) {
	l := newTestLoader()
	names := []string{"INMUEBLES.xml", "INMUEBLES_old.xml"}
	if got := l.pickMember(names, "INMUEBLES"); got != "INMUEBLES.xml" {
		t.Errorf("pickMember: got %q, want first match %q", got, "INMUEBLES.xml")
	}
}
