/*
Package core holds types shared by all packages of module ufo: the error
taxonomy, optional values and the configuration interface.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package core

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

// Configuration is the subset of a schuko configuration this module reads.
// schukonf/testconfig.Conf and the schuko configuration adapters satisfy it.
type Configuration interface {
	GetString(key string) string
}

// ConfigBool reads a boolean configuration value. Unset or unparsable keys
// yield def.
func ConfigBool(conf Configuration, key string, def bool) bool {
	if conf == nil {
		return def
	}
	s := strings.TrimSpace(conf.GetString(key))
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		tracer().Errorf("configuration key %s: cannot interpret %q as boolean", key, s)
		return def
	}
	return b
}
