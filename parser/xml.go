package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"inmo-pipeline/models"
)

// ExtractRecords streams the XML document in r and returns one RawRecord
// per occurrence of the given element tag, in document order. A record's
// fields are the element's direct children, keyed by child tag name and
// valued by the child's trimmed text content.
//
// The traversal is token-based: each element's subtree is discarded as
// soon as its record has been built, so memory stays constant relative to
// document size. Malformed XML yields a *ParseError and no records.
func ExtractRecords(r io.Reader, tag string) ([]models.RawRecord, error) {
	dec := xml.NewDecoder(r)

	var records []models.RawRecord
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != tag {
			continue
		}

		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		records = append(records, rec)
	}
}

// decodeRecord consumes tokens up to the matching end of the current
// element and collects its direct children as record fields.
func decodeRecord(dec *xml.Decoder) (models.RawRecord, error) {
	rec := models.RawRecord{}
	for {
		tok, err := dec.Token()
		if err != nil {
			// EOF here means the document ended mid-element.
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			text, err := readScalar(dec)
			if err != nil {
				return nil, err
			}
			rec[t.Name.Local] = text
		case xml.EndElement:
			return rec, nil
		}
	}
}

// readScalar returns the trimmed text directly inside the current child
// element, skipping over any nested markup.
func readScalar(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
