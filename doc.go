/*
Package ufo reads and writes font sources in the Unified Font Object format.

A UFO container is a directory (or a zip archive with suffix .ufoz) holding
font-wide metadata, one or more layers of glyphs, kerning groups and pairs,
custom lib data, OpenType feature code, images and arbitrary application
data:

	Font.ufo/
	  metainfo.plist        format version and creator
	  fontinfo.plist        names, metrics, OpenType settings
	  layercontents.plist   layer names -> layer directories
	  glyphs/               default layer
	    contents.plist      glyph names -> GLIF file names
	    A_.glif
	  glyphs.background/    further layers
	  groups.plist
	  kerning.plist
	  lib.plist
	  features.fea
	  images/
	  data/

UFO 2 containers are read as well. Their glyphs and kerning groups are
converted to UFO 3 conventions when read; writing always produces UFO 3.

Glyphs are read lazily through glyph sets (package glyphset), decoded from
GLIF by package glif. Property lists are handled by package plist.

# Error handling

Every error returned by this package is a *core.Error carrying a kind
(core.NotFound, core.MalformedDocument, …) and the path concerned. Readers
operate in strict mode by default, returning every failure. In lenient mode,
missing optional files yield empty values and unreadable glyphs are left
out. fontinfo.plist is required in both modes.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ufo

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ufo/core"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// Creator is the creator stamped into metainfo.plist by writers.
const Creator = "github.com/npillmayer/ufo"

// CurrentFormatVersion is the UFO version written by this package.
const CurrentFormatVersion = 3

// Names of files and directories of a UFO container.
const (
	MetaInfoFile      = "metainfo.plist"
	FontInfoFile      = "fontinfo.plist"
	LayerContentsFile = "layercontents.plist"
	LayerInfoFile     = "layerinfo.plist"
	GroupsFile        = "groups.plist"
	KerningFile       = "kerning.plist"
	LibFile           = "lib.plist"
	FeaturesFile      = "features.fea"
	ImagesDir         = "images"
	DataDir           = "data"
)

// --- Options ---------------------------------------------------------------

type options struct {
	strict  bool
	caching bool
}

func defaultOptions() options {
	return options{strict: true, caching: true}
}

// Option configures a Reader.
type Option func(*options)

// Strict selects strict (true, default) or lenient error handling.
func Strict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// Caching enables (default) or disables caching of decoded glyphs.
func Caching(enabled bool) Option {
	return func(o *options) {
		o.caching = enabled
	}
}

// Configuration keys read by OptionsFromConfig.
const (
	ConfigStrict  = "ufo.strict"
	ConfigCaching = "ufo.caching"
)

// OptionsFromConfig derives reader options from a configuration, using keys
// "ufo.strict" and "ufo.caching". Unset keys keep their defaults.
func OptionsFromConfig(conf core.Configuration) []Option {
	def := defaultOptions()
	return []Option{
		Strict(core.ConfigBool(conf, ConfigStrict, def.strict)),
		Caching(core.ConfigBool(conf, ConfigCaching, def.caching)),
	}
}
