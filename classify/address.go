package classify

import (
	"strings"

	osm "github.com/omniscale/go-osm"
)

// DisplayAddress assembles a single-line address from the addr:* tags,
// e.g. "123 Main St, Denver, Colorado". Missing parts are skipped,
// an element without any address tags yields "".
func DisplayAddress(tags osm.Tags) string {
	var parts []string

	housenumber := tags["addr:housenumber"]
	street := tags["addr:street"]
	switch {
	case housenumber != "" && street != "":
		parts = append(parts, housenumber+" "+street)
	case street != "":
		parts = append(parts, street)
	case housenumber != "":
		parts = append(parts, housenumber)
	}

	if city := tags["addr:city"]; city != "" {
		parts = append(parts, city)
	}
	if state := tags["addr:state"]; state != "" {
		parts = append(parts, state)
	}

	return strings.Join(parts, ", ")
}
