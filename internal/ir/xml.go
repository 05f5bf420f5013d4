package ir

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Header is written before the root element of every document.
const Header = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE nta PUBLIC '-//Uppaal Team//DTD Flat System 1.1//EN' 'http://www.it.uu.se/research/group/darts/uppaal/flat-1_2.dtd'>
`

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// WriteDocument writes the header followed by the document tree.
func WriteDocument(w io.Writer, d Document) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writeElement(bw, d.Element(), 0); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteElement writes a single fragment with two-space indentation.
func WriteElement(w io.Writer, e Element) error {
	bw := bufio.NewWriter(w)
	if err := writeElement(bw, e, 0); err != nil {
		return err
	}
	return bw.Flush()
}

// MarshalDocument returns the written form of d.
func MarshalDocument(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalElement returns the written form of e.
func MarshalElement(e Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteElement(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ValidText reports an error when s is not valid UTF-8 or holds a
// character outside the XML 1.0 Char production.
func ValidText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size <= 1 {
				return Errorf(ErrCodeInvalidInput, "invalid UTF-8 at byte %d", i)
			}
		}
		if !xmlChar(r) {
			return Errorf(ErrCodeInvalidInput, "character %U at byte %d is not allowed in XML", r, i)
		}
	}
	return nil
}

func xmlChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// writeElement writes e at the given depth.
//   - no text and no children: <tag attrs/>
//   - text only:               <tag attrs>text</tag>
//   - children:                one child per line, indented
func writeElement(w *bufio.Writer, e Element, depth int) error {
	indent := strings.Repeat("  ", depth)
	var open strings.Builder
	open.WriteString(indent)
	open.WriteByte('<')
	open.WriteString(e.Tag)
	for _, a := range e.Attrs {
		if err := ValidText(a.Value); err != nil {
			return fmt.Errorf("<%s %s>: %w", e.Tag, a.Name, err)
		}
		fmt.Fprintf(&open, ` %s="%s"`, a.Name, attrEscaper.Replace(a.Value))
	}

	switch {
	case len(e.Children) == 0 && e.Text == "":
		open.WriteString("/>\n")
		_, err := w.WriteString(open.String())
		return err
	case len(e.Children) == 0:
		if err := ValidText(e.Text); err != nil {
			return fmt.Errorf("<%s>: %w", e.Tag, err)
		}
		open.WriteByte('>')
		open.WriteString(textEscaper.Replace(e.Text))
		fmt.Fprintf(&open, "</%s>\n", e.Tag)
		_, err := w.WriteString(open.String())
		return err
	}

	open.WriteString(">\n")
	if _, err := w.WriteString(open.String()); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := writeElement(w, c, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s</%s>\n", indent, e.Tag)
	return err
}
