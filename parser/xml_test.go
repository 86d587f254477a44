package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractRecords(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<Inmuebles>
  <Inmueble>
    <fechaing> 01/03/2025 </fechaing>
    <agente_captador>Ana</agente_captador>
    <precio>1.234,56</precio>
  </Inmueble>
  <Inmueble>
    <fechaing>15/04/2025</fechaing>
    <agente_captador></agente_captador>
  </Inmueble>
</Inmuebles>`

	records, err := ExtractRecords(strings.NewReader(doc), "Inmueble")
	if err != nil {
		t.Fatalf("ExtractRecords returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if got := records[0].Get("fechaing"); got != "01/03/2025" {
		t.Errorf("fechaing: got %q, want trimmed %q", got, "01/03/2025")
	}
	if got := records[0].Get("precio"); got != "1.234,56" {
		t.Errorf("precio: got %q, want %q", got, "1.234,56")
	}
	if got := records[1].Get("agente_captador"); got != "" {
		t.Errorf("empty child should yield empty value, got %q", got)
	}
}

func TestExtractRecordsDocumentOrder(t *testing.T) {
	doc := `<root><Demanda><captador>A</captador></Demanda><Demanda><captador>B</captador></Demanda><Demanda><captador>C</captador></Demanda></root>`

	records, err := ExtractRecords(strings.NewReader(doc), "Demanda")
	if err != nil {
		t.Fatalf("ExtractRecords returned error: %v", err)
	}
	want := []string{"A", "B", "C"}
	for i, w := range want {
		if records[i].Get("captador") != w {
			t.Errorf("record %d: got %q, want %q", i, records[i].Get("captador"), w)
		}
	}
}

func TestExtractRecordsSkipsNestedMarkup(t *testing.T) {
	// Scalar fields may still carry stray inline markup; only the direct
	// text should survive.
	doc := `<root><Operacion><vendedor>Ana<b>!</b></vendedor></Operacion></root>`

	records, err := ExtractRecords(strings.NewReader(doc), "Operacion")
	if err != nil {
		t.Fatalf("ExtractRecords returned error: %v", err)
	}
	if got := records[0].Get("vendedor"); got != "Ana" {
		t.Errorf("vendedor: got %q, want %q", got, "Ana")
	}
}

func TestExtractRecordsMalformed(t *testing.T) {
	docs := []string{
		`<root><Operacion><fecha>01/03/2025</fecha>`,
		`<root><Operacion></root>`,
		`<root><Operacion><obs>&nope;</obs></Operacion></root>`,
	}
	for _, doc := range docs {
		_, err := ExtractRecords(strings.NewReader(doc), "Operacion")
		if err == nil {
			t.Errorf("expected error for %q", doc)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("expected *ParseError for %q, got %T", doc, err)
		}
	}
}

func TestExtractRecordsNoMatches(t *testing.T) {
	records, err := ExtractRecords(strings.NewReader(`<root><Otro/></root>`), "Inmueble")
	if err != nil {
		t.Fatalf("ExtractRecords returned error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
}
