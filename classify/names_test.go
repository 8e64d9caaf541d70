package classify

import (
	"testing"

	osm "github.com/omniscale/go-osm"
)

func TestLocalizedName(t *testing.T) {
	tests := []struct {
		tags osm.Tags
		lang string
		want string
	}{
		{osm.Tags{"name": "Rathaus"}, "", "Rathaus"},
		{osm.Tags{"name": "Rathaus", "name:en": "Town Hall"}, "en", "Town Hall"},
		{osm.Tags{"name": "Rathaus", "name:en": "Town Hall"}, "fr", "Rathaus"},
		{osm.Tags{"name": "Rathaus", "name:en": "Town Hall"}, "", "Rathaus"},
		{osm.Tags{"short_name": "UN"}, "", "UN"},
		{osm.Tags{"alt_name": "Old Mill"}, "", "Old Mill"},
		{osm.Tags{"loc_name": "The Shed"}, "", "The Shed"},
		{osm.Tags{"short_name": "UN", "alt_name": "Old Mill"}, "", "UN"},
		// deterministic fallback to the lexically first name variant
		{osm.Tags{"name:en": "Town Hall", "name:de": "Rathaus"}, "", "Rathaus"},
		{osm.Tags{"building": "yes"}, "", ""},
		{osm.Tags{"name": ""}, "", ""},
	}

	for _, test := range tests {
		if got := LocalizedName(test.tags, test.lang); got != test.want {
			t.Errorf("%v lang=%q: got %q, want %q", test.tags, test.lang, got, test.want)
		}
	}
}

func TestDisplayAddress(t *testing.T) {
	tests := []struct {
		tags osm.Tags
		want string
	}{
		{osm.Tags{"addr:housenumber": "12", "addr:street": "Main St", "addr:city": "Denver", "addr:state": "CO"}, "12 Main St, Denver, CO"},
		{osm.Tags{"addr:housenumber": "12", "addr:street": "Main St"}, "12 Main St"},
		{osm.Tags{"addr:street": "Main St"}, "Main St"},
		{osm.Tags{"addr:housenumber": "12"}, "12"},
		{osm.Tags{"addr:city": "Denver"}, "Denver"},
		{osm.Tags{"addr:city": "Denver", "addr:state": "CO"}, "Denver, CO"},
		{osm.Tags{}, ""},
		{osm.Tags{"building": "yes"}, ""},
	}

	for _, test := range tests {
		if got := DisplayAddress(test.tags); got != test.want {
			t.Errorf("%v: got %q, want %q", test.tags, got, test.want)
		}
	}
}
