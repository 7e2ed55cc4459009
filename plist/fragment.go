package plist

import (
	"bytes"
	"strings"
)

// DecodeDictFragment parses a bare <dict> element, as found embedded in
// other XML documents. A blank fragment yields a nil dictionary.
func DecodeDictFragment(fragment []byte) (*Dict, error) {
	if len(bytes.TrimSpace(fragment)) == 0 {
		return nil, nil
	}
	var b bytes.Buffer
	b.WriteString(Header)
	b.Write(fragment)
	b.WriteString("\n")
	b.WriteString(footer)
	return DecodeDict(b.Bytes())
}

// EncodeDictFragment writes d as a bare <dict> element without document
// envelope. Every line starts with prefix, nested levels are indented by
// indent. The result has no trailing line break.
func EncodeDictFragment(d *Dict, prefix, indent string) (string, error) {
	if d == nil {
		d = NewDict()
	}
	var b bytes.Buffer
	e := encoder{buf: &b, prefix: prefix, indent: indent}
	if err := e.value(d, 0); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
