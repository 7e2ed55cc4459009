package ufo

import "fmt"

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm      float64 // units per em
	Ascent, Descent float64 // ascender and descender
	XHeight         float64 // height of lowercase x
	CapHeight       float64 // height of uppercase letters
	LineGap         float64 // typographic line gap, from hhea
	ItalicAngle     float64 // degrees counter-clockwise from vertical
	DefaultAdvanceX float64 // PostScript default width
}

// NameInfo collects identifying strings of a font into a map. Keys are
// "family", "style", "version", "copyright", "trademark", "designer",
// "manufacturer" and "license"; keys without a value are left out.
func NameInfo(fi *FontInfo) map[string]string {
	info := make(map[string]string)
	if fi == nil {
		return info
	}
	put := func(key, value string) {
		if value != "" {
			info[key] = value
		}
	}
	put("family", fi.FamilyName())
	put("style", fi.StyleName())
	if fi.Has("versionMajor") || fi.Has("versionMinor") {
		put("version", fmt.Sprintf("%d.%03d", fi.VersionMajor(), fi.VersionMinor()))
	}
	put("copyright", fi.Copyright())
	put("trademark", fi.Trademark())
	put("designer", fi.OpenTypeNameDesigner())
	put("manufacturer", fi.OpenTypeNameManufacturer())
	put("license", fi.OpenTypeNameLicense())
	tracer().Debugf("name info of %q: %d entries", fi.FamilyName(), len(info))
	return info
}

// MetricsInfo retrieves selected metrics of a font.
func MetricsInfo(fi *FontInfo) FontMetricsInfo {
	if fi == nil {
		return FontMetricsInfo{}
	}
	return FontMetricsInfo{
		UnitsPerEm:      fi.UnitsPerEm(),
		Ascent:          fi.Ascender(),
		Descent:         fi.Descender(),
		XHeight:         fi.XHeight(),
		CapHeight:       fi.CapHeight(),
		LineGap:         fi.OpenTypeHheaLineGap(),
		ItalicAngle:     fi.ItalicAngle(),
		DefaultAdvanceX: fi.PostScriptDefaultWidthX(),
	}
}
