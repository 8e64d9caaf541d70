// Package classify decides which OSM elements become building, office or
// address rows and extracts their normalized attributes.
package classify

import (
	osm "github.com/omniscale/go-osm"
)

// Category is the output classification of an element. Categories are
// mutually exclusive, elements with tags for multiple categories get the
// one with the highest precedence.
type Category string

const (
	Unknown      Category = "unknown"
	Building     Category = "building"
	BuildingPart Category = "building_part"
	Office       Category = "office"
	Address      Category = "address"
)

// Row is a single output record. All pointer fields are nullable in the
// target table. Geom is set by the writer stage, not by the classifier.
type Row struct {
	OSMID       int64
	Category    Category
	Subcategory *string
	Name        *string
	Address     *string
	Housenumber *string
	Street      *string
	City        *string
	State       *string
	Wheelchair  *string
	Operator    *string
	Levels      *int64
	Height      *float64
	Geom        []byte
}

// disqualifying keys prevent the address-only classification. An element
// with addr:* tags and any of these keys belongs to another feature layer.
var disqualifying = []string{
	"shop",
	"amenity",
	"building",
	"building:part",
	"landuse",
	"leisure",
	"office",
	"tourism",
}

const addrPrefix = "addr:"

// Classifier maps tagged elements to Rows. Classification is a pure
// function of the tags and the open/closed state of the geometry, it is
// safe to call from multiple goroutines.
type Classifier struct {
	// Language selects name:<Language> over the plain name tag.
	Language string
}

// ClassifyNode returns the output row for a tagged node, or false if the
// node matches no category.
func (c *Classifier) ClassifyNode(nd *osm.Node) (Row, bool) {
	cat, subtype := matchCategory(nd.Tags)
	if cat == Unknown {
		return Row{}, false
	}
	return c.extract(nd.ID, nd.Tags, cat, subtype), true
}

// ClassifyWay returns the output row for a tagged way, or false if the way
// matches no category. Open ways never match, regardless of their tags.
func (c *Classifier) ClassifyWay(w *osm.Way) (Row, bool) {
	if !w.IsClosed() {
		return Row{}, false
	}
	cat, subtype := matchCategory(w.Tags)
	if cat == Unknown {
		return Row{}, false
	}
	return c.extract(w.ID, w.Tags, cat, subtype), true
}

// matchCategory applies the category precedence: building, building:part
// and office win over address-only elements.
func matchCategory(tags osm.Tags) (Category, string) {
	if v := tags["building"]; v != "" {
		return Building, v
	}
	if v := tags["building:part"]; v != "" {
		return BuildingPart, v
	}
	if v := tags["office"]; v != "" {
		return Office, v
	}
	if isAddressOnly(tags) {
		return Address, ""
	}
	return Unknown, ""
}

func isAddressOnly(tags osm.Tags) bool {
	hasAddr := false
	for k := range tags {
		if len(k) > len(addrPrefix) && k[:len(addrPrefix)] == addrPrefix {
			hasAddr = true
			break
		}
	}
	if !hasAddr {
		return false
	}
	for _, k := range disqualifying {
		if _, ok := tags[k]; ok {
			return false
		}
	}
	return true
}

// extract builds the output row. Malformed or missing tags always degrade
// to null fields. wheelchair, operator and building:levels are removed
// from the tag map so later pipeline stages do not process them again.
func (c *Classifier) extract(id int64, tags osm.Tags, cat Category, subtype string) Row {
	row := Row{
		OSMID:    id,
		Category: cat,
	}
	if subtype != "" {
		row.Subcategory = &subtype
	}
	if name := LocalizedName(tags, c.Language); name != "" {
		row.Name = &name
	}
	if addr := DisplayAddress(tags); addr != "" {
		row.Address = &addr
	}
	row.Housenumber = tagPtr(tags, "addr:housenumber")
	row.Street = tagPtr(tags, "addr:street")
	row.City = tagPtr(tags, "addr:city")
	row.State = tagPtr(tags, "addr:state")

	row.Wheelchair = takeTagPtr(tags, "wheelchair")
	row.Operator = takeTagPtr(tags, "operator")
	if v, ok := tags["building:levels"]; ok {
		delete(tags, "building:levels")
		if levels, ok := parseLevels(v); ok {
			row.Levels = &levels
		}
	}
	if v, ok := tags["height"]; ok {
		if height, ok := ParseHeightMeters(v); ok {
			row.Height = &height
		}
	}
	return row
}

func tagPtr(tags osm.Tags, key string) *string {
	if v, ok := tags[key]; ok && v != "" {
		return &v
	}
	return nil
}

func takeTagPtr(tags osm.Tags, key string) *string {
	v := tagPtr(tags, key)
	delete(tags, key)
	return v
}
