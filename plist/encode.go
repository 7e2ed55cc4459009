package plist

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Header is the document prolog written in front of every property list.
const Header = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
`

const footer = "</plist>\n"

// Encode writes v as a complete property list document, indenting nested
// elements with tabs.
func Encode(v any) ([]byte, error) {
	return EncodeIndent(v, "\t")
}

// EncodeIndent is like Encode but uses indent for each nesting level.
func EncodeIndent(v any, indent string) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(Header)
	e := encoder{buf: &b, indent: indent}
	if err := e.value(normalize(v), 0); err != nil {
		return nil, err
	}
	b.WriteString(footer)
	return b.Bytes(), nil
}

type encoder struct {
	buf    *bytes.Buffer
	prefix string
	indent string
}

func (e encoder) line(depth int, s string) {
	e.buf.WriteString(e.prefix)
	for range depth {
		e.buf.WriteString(e.indent)
	}
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e encoder) value(v any, depth int) error {
	switch x := v.(type) {
	case *Dict:
		if x.Len() == 0 {
			e.line(depth, "<dict/>")
			return nil
		}
		e.line(depth, "<dict>")
		for k, val := range x.All() {
			e.line(depth+1, "<key>"+EscapeText(k)+"</key>")
			if err := e.value(val, depth+1); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		e.line(depth, "</dict>")
	case []any:
		if len(x) == 0 {
			e.line(depth, "<array/>")
			return nil
		}
		e.line(depth, "<array>")
		for _, val := range x {
			if err := e.value(normalize(val), depth+1); err != nil {
				return err
			}
		}
		e.line(depth, "</array>")
	case string:
		e.line(depth, "<string>"+EscapeText(x)+"</string>")
	case int64:
		e.line(depth, "<integer>"+strconv.FormatInt(x, 10)+"</integer>")
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("plist: cannot encode real %v", x)
		}
		e.line(depth, "<real>"+FormatReal(x)+"</real>")
	case bool:
		if x {
			e.line(depth, "<true/>")
		} else {
			e.line(depth, "<false/>")
		}
	case time.Time:
		e.line(depth, "<date>"+x.UTC().Format("2006-01-02T15:04:05Z")+"</date>")
	case []byte:
		e.line(depth, "<data>"+base64.StdEncoding.EncodeToString(x)+"</data>")
	default:
		return fmt.Errorf("plist: cannot encode value of type %T", v)
	}
	return nil
}

// FormatReal formats a real number without exponent for the usual range of
// font coordinates, and in exponent notation otherwise.
func FormatReal(f float64) string {
	if a := math.Abs(f); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes s for use as XML character data. Line breaks are kept.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
