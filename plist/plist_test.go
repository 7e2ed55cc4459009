package plist

import (
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const contentsPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>z</key>
	<string>z.glif</string>
	<key>a</key>
	<string>a.glif</string>
	<key>A</key>
	<string>A_.glif</string>
</dict>
</plist>
`

func TestDecodeKeepsKeyOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	d, err := DecodeDict([]byte(contentsPlist))
	if err != nil {
		t.Fatal(err)
	}
	keys := d.Keys()
	if strings.Join(keys, ",") != "z,a,A" {
		t.Errorf("expected keys in document order, have %v", keys)
	}
	if s, _ := d.String("A"); s != "A_.glif" {
		t.Errorf("expected A -> A_.glif, have %q", s)
	}
}

func TestDecodeValueTypes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	doc := `<plist version="1.0"><dict>
		<key>int</key><integer>-12</integer>
		<key>real</key><real>0.5</real>
		<key>yes</key><true/>
		<key>no</key><false/>
		<key>date</key><date>2020-01-02T03:04:05Z</date>
		<key>data</key><data>aGVs
		bG8=</data>
		<key>list</key><array><string>a</string><integer>1</integer></array>
		<key>empty</key><array/>
		<key>nested</key><dict><key>x</key><string>&lt;y&gt;</string></dict>
	</dict></plist>`
	d, err := DecodeDict([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := d.Int("int"); !ok || n != -12 {
		t.Errorf("int: have %d (%v)", n, ok)
	}
	if f, ok := d.Float("real"); !ok || f != 0.5 {
		t.Errorf("real: have %v (%v)", f, ok)
	}
	if b, ok := d.Bool("yes"); !ok || !b {
		t.Errorf("expected true")
	}
	if b, ok := d.Bool("no"); !ok || b {
		t.Errorf("expected false")
	}
	if v, _ := d.Get("date"); !Equal(v, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("date: have %v", v)
	}
	if v, _ := d.Get("data"); string(v.([]byte)) != "hello" {
		t.Errorf("data: have %q", v)
	}
	if a, ok := d.Array("list"); !ok || len(a) != 2 || a[1] != int64(1) {
		t.Errorf("list: have %v", a)
	}
	if a, ok := d.Array("empty"); !ok || len(a) != 0 {
		t.Errorf("expected empty array, have %v", a)
	}
	n, ok := d.Dict("nested")
	if !ok {
		t.Fatalf("expected nested dict")
	}
	if s, _ := n.String("x"); s != "<y>" {
		t.Errorf("expected unescaped string, have %q", s)
	}
}

func TestDecodeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	docs := map[string]string{
		"truncated":     `<plist><dict><key>a</key>`,
		"key only":      `<plist><dict><key>a</key></dict></plist>`,
		"value only":    `<plist><dict><string>a</string></dict></plist>`,
		"bad integer":   `<plist><integer>x</integer></plist>`,
		"unknown":       `<plist><set/></plist>`,
		"no value":      `<plist></plist>`,
		"not XML":       `{"a": 1}`,
		"nested markup": `<plist><string>a<b/></string></plist>`,
	}
	for name, doc := range docs {
		if _, err := Decode([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := DecodeDict([]byte(`<plist><array/></plist>`)); err == nil {
		t.Errorf("expected error for non-dict root")
	}
}

func TestEncode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	d := NewDict()
	d.Set("name", "A & B")
	d.Set("width", 500)
	d.Set("slant", -12.5)
	d.Set("empty", NewDict())
	d.Set("list", []string{"a", "b"})
	out, err := Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	expected := Header + `<dict>
	<key>name</key>
	<string>A &amp; B</string>
	<key>width</key>
	<integer>500</integer>
	<key>slant</key>
	<real>-12.5</real>
	<key>empty</key>
	<dict/>
	<key>list</key>
	<array>
		<string>a</string>
		<string>b</string>
	</array>
</dict>
</plist>
`
	if string(out) != expected {
		t.Errorf("unexpected output:\n%s", out)
	}
	back, err := DecodeDict(out)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(d, back) {
		t.Errorf("expected decoded document to equal the original")
	}
	if _, err := Encode(struct{}{}); err == nil {
		t.Errorf("expected error for unsupported type")
	}
}

func TestDictFragment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.ufo")
	defer teardown()
	//
	d := NewDict()
	d.Set("public.markColor", "1,0,0,1")
	frag, err := EncodeDictFragment(d, "    ", "  ")
	if err != nil {
		t.Fatal(err)
	}
	expected := "    <dict>\n      <key>public.markColor</key>\n      <string>1,0,0,1</string>\n    </dict>"
	if frag != expected {
		t.Errorf("unexpected fragment:\n%s", frag)
	}
	back, err := DecodeDictFragment([]byte(frag))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(d, back) {
		t.Errorf("expected fragment to decode to original dict")
	}
	blank, err := DecodeDictFragment([]byte("  \n "))
	if err != nil || blank != nil {
		t.Errorf("expected blank fragment to yield nil dict, have %v, %v", blank, err)
	}
}

func TestDictOperations(t *testing.T) {
	d := NewDict()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("c", 3)
	d.Set("a", 10)
	if strings.Join(d.Keys(), "") != "abc" {
		t.Errorf("expected overwrite to keep position, have %v", d.Keys())
	}
	if !d.Delete("b") || d.Delete("b") {
		t.Errorf("expected delete to report presence exactly once")
	}
	d.Set("c", nil)
	if d.Len() != 1 || d.Has("c") {
		t.Errorf("expected nil value to delete key")
	}
	c := d.Clone()
	c.Set("a", 11)
	if n, _ := d.Int("a"); n != 10 {
		t.Errorf("expected clone to be independent, have %d", n)
	}
	var none *Dict
	if none.Len() != 0 || none.Has("a") {
		t.Errorf("expected nil dict to be empty")
	}
	if !Equal(NewDict(), c.Clone().deleteAll()) {
		t.Errorf("expected emptied dict to equal new dict")
	}
	if Equal(map[string]any{"a": 1, "b": 2}, []any{1, 2}) {
		t.Errorf("expected dict and array to differ")
	}
}

func (d *Dict) deleteAll() *Dict {
	for _, k := range d.Keys() {
		d.Delete(k)
	}
	return d
}

func TestFormatReal(t *testing.T) {
	for in, out := range map[float64]string{1: "1", 0.25: "0.25", -3.5: "-3.5", 1e-9: "1e-09", 0: "0"} {
		if s := FormatReal(in); s != out {
			t.Errorf("FormatReal(%v) = %q; want %q", in, s, out)
		}
	}
}
