package plist

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrNoValue is returned for documents without a property list value.
var ErrNoValue = errors.New("plist: document contains no value")

// Decode parses a property list document and returns its root value.
// The <plist> envelope is optional.
func Decode(data []byte) (any, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, ErrNoValue
		} else if err != nil {
			return nil, fmt.Errorf("plist: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "plist" {
			return decodeValue(d, start)
		}
		v, err := decodeOnlyChild(d)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// DecodeDict parses a property list document whose root value is a
// dictionary.
func DecodeDict(data []byte) (*Dict, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(*Dict)
	if !ok {
		return nil, fmt.Errorf("plist: root value is %s, expected dict", typeName(v))
	}
	return dict, nil
}

// decodeOnlyChild reads the single value inside <plist>.
func decodeOnlyChild(d *xml.Decoder) (any, error) {
	var v any
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if v != nil {
				return nil, fmt.Errorf("plist: more than one root value")
			}
			if v, err = decodeValue(d, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if v == nil {
				return nil, ErrNoValue
			}
			return v, nil
		}
	}
}

func decodeValue(d *xml.Decoder, start xml.StartElement) (any, error) {
	switch start.Name.Local {
	case "dict":
		return decodeDict(d)
	case "array":
		return decodeArray(d)
	case "true", "false":
		if err := d.Skip(); err != nil {
			return nil, unexpected(err)
		}
		return start.Name.Local == "true", nil
	}
	text, err := readText(d, start.Name.Local)
	if err != nil {
		return nil, err
	}
	switch start.Name.Local {
	case "string":
		return text, nil
	case "integer":
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("plist: invalid integer %q", text)
		}
		return n, nil
	case "real":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("plist: invalid real %q", text)
		}
		return f, nil
	case "date":
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("plist: invalid date %q", text)
		}
		return t, nil
	case "data":
		raw := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, text)
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("plist: invalid data: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("plist: unknown element <%s>", start.Name.Local)
}

func decodeDict(d *xml.Decoder) (*Dict, error) {
	dict := NewDict()
	var key string
	var haveKey bool
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "key" {
				if haveKey {
					return nil, fmt.Errorf("plist: key %q without value", key)
				}
				if key, err = readText(d, "key"); err != nil {
					return nil, err
				}
				haveKey = true
				continue
			}
			if !haveKey {
				return nil, fmt.Errorf("plist: dict value <%s> without key", t.Name.Local)
			}
			v, err := decodeValue(d, t)
			if err != nil {
				return nil, err
			}
			if dict.Has(key) {
				tracer().Debugf("plist: duplicate dict key %q, last one wins", key)
			}
			dict.Set(key, v)
			haveKey = false
		case xml.EndElement:
			if haveKey {
				return nil, fmt.Errorf("plist: key %q without value", key)
			}
			return dict, nil
		}
	}
}

func decodeArray(d *xml.Decoder) ([]any, error) {
	a := []any{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v, err := decodeValue(d, t)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		case xml.EndElement:
			return a, nil
		}
	}
}

// readText collects the character data of a leaf element up to its end tag.
func readText(d *xml.Decoder, element string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", unexpected(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("plist: unexpected <%s> inside <%s>", t.Name.Local, element)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("plist: %w", err)
}

func typeName(v any) string {
	switch v.(type) {
	case *Dict:
		return "dict"
	case []any:
		return "array"
	case string:
		return "string"
	case int64:
		return "integer"
	case float64:
		return "real"
	case bool:
		return "boolean"
	case time.Time:
		return "date"
	case []byte:
		return "data"
	}
	return fmt.Sprintf("%T", v)
}
