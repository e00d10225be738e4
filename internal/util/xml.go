package util

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
)

// RootElement returns the local name (no namespace prefix) of the
// document's root element, used by the package parser (§4.1 step 1) to
// classify a *.xml file without fully unmarshalling it.
func RootElement(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("no root element in %s", path)
			}
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

// Namespace returns the default xmlns of the document's root element,
// used to discriminate Interop from SMPTE schema variants.
func Namespace(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", nil
			}
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Space, nil
		}
	}
}

// Decode parses the XML document at path into v: an anonymous struct or
// a named model type tagged with `xml:"..."`.
func Decode(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse xml %s: %w", path, err)
	}
	return nil
}

// CanonicalizeExcluding returns the exclusive-C14N (a restricted,
// deterministic approximation sufficient for re-hashing a whole document
// whose producer already wrote canonical-ish XML, per §4.12 step 5)
// serialization of the document at path, with the element named
// excludeLocal (and its subtree) removed — used to recompute the
// Reference digest over a signed XML document without its own
// <Signature> block.
func CanonicalizeExcluding(data []byte, excludeLocal string) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out bytes.Buffer
	depthToSkip := -1

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depthToSkip >= 0 {
				depthToSkip++
				continue
			}
			if t.Name.Local == excludeLocal {
				depthToSkip = 0
				continue
			}
			writeStartElementC14N(&out, t)
		case xml.EndElement:
			if depthToSkip >= 0 {
				if depthToSkip == 0 {
					depthToSkip = -1
				} else {
					depthToSkip--
				}
				continue
			}
			fmt.Fprintf(&out, "</%s>", qualifiedName(t.Name))
		case xml.CharData:
			if depthToSkip >= 0 {
				continue
			}
			out.Write(escapeText(t))
		}
	}
	return out.Bytes(), nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Local
}

// writeStartElementC14N writes a start tag with attributes sorted by
// name, the one C14N property that matters for bit-exact re-hashing of
// DCP XML (attribute order is not semantically meaningful but does
// affect the serialized byte stream).
func writeStartElementC14N(out *bytes.Buffer, se xml.StartElement) {
	fmt.Fprintf(out, "<%s", qualifiedName(se.Name))
	attrs := append([]xml.Attr{}, se.Attr...)
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Name.Local < attrs[j].Name.Local
	})
	for _, a := range attrs {
		fmt.Fprintf(out, ` %s="%s"`, qualifiedName(a.Name), escapeAttr(a.Value))
	}
	out.WriteString(">")
}

func escapeText(b []byte) []byte {
	var buf bytes.Buffer
	xml.EscapeText(&buf, b)
	return buf.Bytes()
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
