package classify

import (
	"sort"
	"strings"

	osm "github.com/omniscale/go-osm"
)

// nameFallbacks in priority order, checked after the localized and the
// plain name tag.
var nameFallbacks = []string{
	"short_name",
	"alt_name",
	"loc_name",
}

// LocalizedName returns the best name for an element. A localized
// name:<lang> tag wins if lang is set, then the plain name tag, then the
// fallback names, then any other name:* variant (lexical key order keeps
// the choice deterministic). Returns "" if the element has no name.
func LocalizedName(tags osm.Tags, lang string) string {
	if lang != "" {
		if v := tags["name:"+lang]; v != "" {
			return v
		}
	}
	if v := tags["name"]; v != "" {
		return v
	}
	for _, key := range nameFallbacks {
		if v := tags[key]; v != "" {
			return v
		}
	}
	var variants []string
	for k, v := range tags {
		if strings.HasPrefix(k, "name:") && v != "" {
			variants = append(variants, k)
		}
	}
	if len(variants) == 0 {
		return ""
	}
	sort.Strings(variants)
	return tags[variants[0]]
}
