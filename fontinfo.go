package ufo

import (
	"time"

	"github.com/npillmayer/ufo/plist"
)

// HeadCreatedLayout is the layout of fontinfo key openTypeHeadCreated.
const HeadCreatedLayout = "2006/01/02 15:04:05"

// FontInfo holds the contents of fontinfo.plist. Typed accessors are
// provided for commonly used keys; others may be accessed through the
// embedded dictionary. Accessors of missing keys return zero values.
type FontInfo struct {
	*plist.Dict
}

// NewFontInfo creates an empty FontInfo.
func NewFontInfo() *FontInfo {
	return &FontInfo{Dict: plist.NewDict()}
}

func (fi *FontInfo) str(key string) string {
	s, _ := fi.String(key)
	return s
}

func (fi *FontInfo) integer(key string) int {
	n, _ := fi.Int(key)
	return int(n)
}

func (fi *FontInfo) number(key string) float64 {
	f, _ := fi.Float(key)
	return f
}

func (fi *FontInfo) ints(key string) []int {
	nn, _ := fi.Ints(key)
	r := make([]int, len(nn))
	for i, n := range nn {
		r[i] = int(n)
	}
	return r
}

// Generic identification information.

// FamilyName returns the family name, e.g. "Times".
func (fi *FontInfo) FamilyName() string { return fi.str("familyName") }

// StyleName returns the style name, e.g. "Bold Italic".
func (fi *FontInfo) StyleName() string { return fi.str("styleName") }

// StyleMapFamilyName returns the family name used for style mapping.
func (fi *FontInfo) StyleMapFamilyName() string { return fi.str("styleMapFamilyName") }

// StyleMapStyleName returns one of regular, italic, bold or "bold italic".
func (fi *FontInfo) StyleMapStyleName() string { return fi.str("styleMapStyleName") }

// VersionMajor returns the major font version.
func (fi *FontInfo) VersionMajor() int { return fi.integer("versionMajor") }

// VersionMinor returns the minor font version.
func (fi *FontInfo) VersionMinor() int { return fi.integer("versionMinor") }

// Year returns the year of creation.
func (fi *FontInfo) Year() int { return fi.integer("year") }

// Legal and miscellaneous information.

// Copyright returns the copyright statement.
func (fi *FontInfo) Copyright() string { return fi.str("copyright") }

// Trademark returns the trademark statement.
func (fi *FontInfo) Trademark() string { return fi.str("trademark") }

// Note returns an arbitrary note about the font.
func (fi *FontInfo) Note() string { return fi.str("note") }

// Dimension information.

// UnitsPerEm returns the size of the em square.
func (fi *FontInfo) UnitsPerEm() float64 { return fi.number("unitsPerEm") }

// Ascender returns the ascender value in font units.
func (fi *FontInfo) Ascender() float64 { return fi.number("ascender") }

// Descender returns the descender value, usually negative.
func (fi *FontInfo) Descender() float64 { return fi.number("descender") }

// XHeight returns the height of lowercase x.
func (fi *FontInfo) XHeight() float64 { return fi.number("xHeight") }

// CapHeight returns the height of capital letters.
func (fi *FontInfo) CapHeight() float64 { return fi.number("capHeight") }

// ItalicAngle returns the italic angle in counter-clockwise degrees.
func (fi *FontInfo) ItalicAngle() float64 { return fi.number("italicAngle") }

// OpenType name and OS/2 table information.

// OpenTypeNameDesigner returns the designer name (name ID 9).
func (fi *FontInfo) OpenTypeNameDesigner() string { return fi.str("openTypeNameDesigner") }

// OpenTypeNameDesignerURL returns the designer URL (name ID 12).
func (fi *FontInfo) OpenTypeNameDesignerURL() string { return fi.str("openTypeNameDesignerURL") }

// OpenTypeNameManufacturer returns the manufacturer name (name ID 8).
func (fi *FontInfo) OpenTypeNameManufacturer() string { return fi.str("openTypeNameManufacturer") }

// OpenTypeNameManufacturerURL returns the manufacturer URL (name ID 11).
func (fi *FontInfo) OpenTypeNameManufacturerURL() string { return fi.str("openTypeNameManufacturerURL") }

// OpenTypeNameLicense returns the license text (name ID 13).
func (fi *FontInfo) OpenTypeNameLicense() string { return fi.str("openTypeNameLicense") }

// OpenTypeNameLicenseURL returns the license URL (name ID 14).
func (fi *FontInfo) OpenTypeNameLicenseURL() string { return fi.str("openTypeNameLicenseURL") }

// OpenTypeOS2VendorID returns the four character vendor ID of the OS/2 table.
func (fi *FontInfo) OpenTypeOS2VendorID() string { return fi.str("openTypeOS2VendorID") }

// OpenTypeHheaLineGap returns the line gap of the hhea table.
func (fi *FontInfo) OpenTypeHheaLineGap() float64 { return fi.number("openTypeHheaLineGap") }

// OpenTypeHeadCreated returns the creation date of the font, if set.
func (fi *FontInfo) OpenTypeHeadCreated() (time.Time, bool) {
	s, ok := fi.String("openTypeHeadCreated")
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(HeadCreatedLayout, s, time.UTC)
	if err != nil {
		tracer().Debugf("fontinfo: cannot parse openTypeHeadCreated %q", s)
		return time.Time{}, false
	}
	return t, true
}

// PostScript hinting information.

// PostScriptBlueValues returns the blue zone pairs.
func (fi *FontInfo) PostScriptBlueValues() []int { return fi.ints("postscriptBlueValues") }

// PostScriptOtherBlues returns the blue zone pairs below the baseline.
func (fi *FontInfo) PostScriptOtherBlues() []int { return fi.ints("postscriptOtherBlues") }

// PostScriptFamilyBlues returns the family blue zone pairs.
func (fi *FontInfo) PostScriptFamilyBlues() []int { return fi.ints("postscriptFamilyBlues") }

// PostScriptFamilyOtherBlues returns the family blue zone pairs below the baseline.
func (fi *FontInfo) PostScriptFamilyOtherBlues() []int { return fi.ints("postscriptFamilyOtherBlues") }

// PostScriptStemSnapH returns the horizontal stem widths.
func (fi *FontInfo) PostScriptStemSnapH() []int { return fi.ints("postscriptStemSnapH") }

// PostScriptStemSnapV returns the vertical stem widths.
func (fi *FontInfo) PostScriptStemSnapV() []int { return fi.ints("postscriptStemSnapV") }

// PostScriptDefaultWidthX returns the default glyph width for CFF.
func (fi *FontInfo) PostScriptDefaultWidthX() float64 { return fi.number("postscriptDefaultWidthX") }

// SetFamilyName sets the family name, an empty name removes it.
func (fi *FontInfo) SetFamilyName(name string) { fi.setString("familyName", name) }

// SetStyleName sets the style name, an empty name removes it.
func (fi *FontInfo) SetStyleName(name string) { fi.setString("styleName", name) }

// SetVersion sets versionMajor and versionMinor.
func (fi *FontInfo) SetVersion(major, minor int) {
	fi.Set("versionMajor", major)
	fi.Set("versionMinor", minor)
}

// SetUnitsPerEm sets the em size.
func (fi *FontInfo) SetUnitsPerEm(upm float64) { fi.setNumber("unitsPerEm", upm) }

// SetVerticalMetrics sets ascender, descender, x-height and cap height.
func (fi *FontInfo) SetVerticalMetrics(ascender, descender, xHeight, capHeight float64) {
	fi.setNumber("ascender", ascender)
	fi.setNumber("descender", descender)
	fi.setNumber("xHeight", xHeight)
	fi.setNumber("capHeight", capHeight)
}

// SetOpenTypeHeadCreated sets the creation date, stored in UTC.
func (fi *FontInfo) SetOpenTypeHeadCreated(t time.Time) {
	fi.Set("openTypeHeadCreated", t.UTC().Format(HeadCreatedLayout))
}

func (fi *FontInfo) setString(key, value string) {
	if value == "" {
		fi.Delete(key)
		return
	}
	fi.Set(key, value)
}

// setNumber stores integral values as <integer>, others as <real>.
func (fi *FontInfo) setNumber(key string, f float64) {
	fi.Set(key, plistNumber(f))
}

func plistNumber(f float64) any {
	if f == float64(int64(f)) {
		return int64(f)
	}
	return f
}

// --- Meta info -------------------------------------------------------------

// MetaInfo holds the contents of metainfo.plist.
type MetaInfo struct {
	Creator            string
	FormatVersion      int
	FormatVersionMinor int
}

func metaInfoFromDict(d *plist.Dict) MetaInfo {
	m := MetaInfo{FormatVersion: CurrentFormatVersion}
	m.Creator, _ = d.String("creator")
	if v, ok := d.Int("formatVersion"); ok {
		m.FormatVersion = int(v)
	}
	if v, ok := d.Int("formatVersionMinor"); ok {
		m.FormatVersionMinor = int(v)
	}
	return m
}

func (m MetaInfo) dict() *plist.Dict {
	d := plist.NewDict()
	d.Set("creator", m.Creator)
	d.Set("formatVersion", m.FormatVersion)
	if m.FormatVersionMinor != 0 {
		d.Set("formatVersionMinor", m.FormatVersionMinor)
	}
	return d
}
