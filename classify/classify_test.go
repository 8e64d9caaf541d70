package classify

import (
	"testing"

	osm "github.com/omniscale/go-osm"
)

func makeNode(tags osm.Tags) *osm.Node {
	nd := &osm.Node{}
	nd.ID = 17
	nd.Tags = tags
	return nd
}

func makeClosedWay(tags osm.Tags) *osm.Way {
	w := &osm.Way{}
	w.ID = 23
	w.Tags = tags
	w.Refs = []int64{1, 2, 3, 1}
	return w
}

func makeOpenWay(tags osm.Tags) *osm.Way {
	w := &osm.Way{}
	w.ID = 23
	w.Tags = tags
	w.Refs = []int64{1, 2, 3, 4}
	return w
}

func TestClassifyCategories(t *testing.T) {
	c := Classifier{}

	tests := []struct {
		tags     osm.Tags
		category Category
		subtype  string
	}{
		{osm.Tags{"building": "yes"}, Building, "yes"},
		{osm.Tags{"building": "detached"}, Building, "detached"},
		{osm.Tags{"building:part": "roof"}, BuildingPart, "roof"},
		{osm.Tags{"office": "architect"}, Office, "architect"},
		{osm.Tags{"addr:housenumber": "12", "addr:street": "Main St"}, Address, ""},
		// building wins regardless of other tags
		{osm.Tags{"building": "yes", "office": "school"}, Building, "yes"},
		{osm.Tags{"building": "yes", "building:part": "roof", "office": "yes"}, Building, "yes"},
		{osm.Tags{"building:part": "roof", "office": "yes"}, BuildingPart, "roof"},
		{osm.Tags{"building": "yes", "shop": "bakery", "addr:street": "Main St"}, Building, "yes"},
	}

	for _, test := range tests {
		row, ok := c.ClassifyNode(makeNode(test.tags))
		if !ok {
			t.Errorf("%v not classified", test.tags)
			continue
		}
		if row.Category != test.category {
			t.Errorf("%v: got %s, want %s", test.tags, row.Category, test.category)
		}
		if test.subtype == "" && row.Subcategory != nil {
			t.Errorf("%v: unexpected subcategory %s", test.tags, *row.Subcategory)
		}
		if test.subtype != "" && (row.Subcategory == nil || *row.Subcategory != test.subtype) {
			t.Errorf("%v: wrong subcategory, want %s", test.tags, test.subtype)
		}
	}
}

func TestClassifyRejected(t *testing.T) {
	c := Classifier{}

	tests := []osm.Tags{
		{},
		{"highway": "residential"},
		{"building": ""},
		{"office": ""},
		// addr: plus a disqualifying key
		{"addr:housenumber": "12", "shop": "bakery"},
		{"addr:housenumber": "12", "amenity": "cafe"},
		{"addr:housenumber": "12", "landuse": "retail"},
		{"addr:housenumber": "12", "leisure": "park"},
		{"addr:housenumber": "12", "tourism": "hotel"},
		// disqualifying key present but empty value still disqualifies
		{"addr:housenumber": "12", "shop": ""},
		// bare "addr" key is not an addr: prefix
		{"addr": "12"},
	}

	for _, tags := range tests {
		if row, ok := c.ClassifyNode(makeNode(tags)); ok {
			t.Errorf("%v classified as %s", tags, row.Category)
		}
	}
}

func TestClassifyWayClosed(t *testing.T) {
	c := Classifier{}

	if _, ok := c.ClassifyWay(makeOpenWay(osm.Tags{"building": "yes"})); ok {
		t.Fatal("open way classified")
	}
	row, ok := c.ClassifyWay(makeClosedWay(osm.Tags{"building": "yes"}))
	if !ok {
		t.Fatal("closed way not classified")
	}
	if row.Category != Building {
		t.Fatal(row)
	}
	if row.OSMID != 23 {
		t.Fatal(row)
	}
}

func TestExtractAttributes(t *testing.T) {
	c := Classifier{}

	tags := osm.Tags{
		"building":         "residential",
		"name":             "Fern Tower",
		"addr:housenumber": "12",
		"addr:street":      "Main St",
		"addr:city":        "Denver",
		"addr:state":       "CO",
		"wheelchair":       "limited",
		"operator":         "ACME Housing",
		"building:levels":  "5",
		"height":           "25 m",
	}
	row, ok := c.ClassifyNode(makeNode(tags))
	if !ok {
		t.Fatal("not classified")
	}
	if row.Name == nil || *row.Name != "Fern Tower" {
		t.Error("name:", row.Name)
	}
	if row.Address == nil || *row.Address != "12 Main St, Denver, CO" {
		t.Error("address:", row.Address)
	}
	if row.Housenumber == nil || *row.Housenumber != "12" {
		t.Error("housenumber:", row.Housenumber)
	}
	if row.Street == nil || *row.Street != "Main St" {
		t.Error("street:", row.Street)
	}
	if row.City == nil || *row.City != "Denver" {
		t.Error("city:", row.City)
	}
	if row.State == nil || *row.State != "CO" {
		t.Error("state:", row.State)
	}
	if row.Wheelchair == nil || *row.Wheelchair != "limited" {
		t.Error("wheelchair:", row.Wheelchair)
	}
	if row.Operator == nil || *row.Operator != "ACME Housing" {
		t.Error("operator:", row.Operator)
	}
	if row.Levels == nil || *row.Levels != 5 {
		t.Error("levels:", row.Levels)
	}
	if row.Height == nil || *row.Height != 25 {
		t.Error("height:", row.Height)
	}
}

func TestExtractConsumesTags(t *testing.T) {
	c := Classifier{}

	tags := osm.Tags{
		"building":        "yes",
		"wheelchair":      "yes",
		"operator":        "ACME",
		"building:levels": "3",
		"height":          "10",
	}
	if _, ok := c.ClassifyNode(makeNode(tags)); !ok {
		t.Fatal("not classified")
	}
	for _, consumed := range []string{"wheelchair", "operator", "building:levels"} {
		if _, ok := tags[consumed]; ok {
			t.Errorf("%s not consumed", consumed)
		}
	}
	// height stays, only consuming tags listed in the contract are removed
	if _, ok := tags["height"]; !ok {
		t.Error("height should not be consumed")
	}
	if _, ok := tags["building"]; !ok {
		t.Error("building should not be consumed")
	}
}

func TestExtractMalformedDegradesToNull(t *testing.T) {
	c := Classifier{}

	tags := osm.Tags{
		"building":        "yes",
		"building:levels": "many",
		"height":          "abc",
	}
	row, ok := c.ClassifyNode(makeNode(tags))
	if !ok {
		t.Fatal("not classified")
	}
	if row.Levels != nil {
		t.Error("levels:", *row.Levels)
	}
	if row.Height != nil {
		t.Error("height:", *row.Height)
	}
	if row.Name != nil || row.Address != nil || row.Wheelchair != nil {
		t.Error(row)
	}
}

func TestExtractHeightUnits(t *testing.T) {
	c := Classifier{}

	row, ok := c.ClassifyNode(makeNode(osm.Tags{"building": "yes", "height": "10 ft"}))
	if !ok {
		t.Fatal("not classified")
	}
	if row.Height == nil || *row.Height != 3.048 {
		t.Fatal("height:", row.Height)
	}
}
