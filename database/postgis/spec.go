package postgis

import (
	"fmt"
	"strings"

	"github.com/osmflex/osmflex/classify"
)

type ColumnSpec struct {
	Name string
	Type string
}

type TableSpec struct {
	Name         string
	FullName     string
	Schema       string
	GeometryType string
	Srid         int
	Columns      []ColumnSpec
}

// buildingColumns is the fixed output schema. Order and names are the
// contract other stages (reporting SQL, QGIS styles) depend on, do not
// reorder.
var buildingColumns = []ColumnSpec{
	{"osm_id", "BIGINT"},
	{"category", "VARCHAR"},
	{"subcategory", "VARCHAR"},
	{"name", "VARCHAR"},
	{"address", "VARCHAR"},
	{"housenumber", "VARCHAR"},
	{"street", "VARCHAR"},
	{"city", "VARCHAR"},
	{"state", "VARCHAR"},
	{"wheelchair", "VARCHAR"},
	{"operator", "VARCHAR"},
	{"levels", "INTEGER"},
	{"height", "REAL"},
	{"geometry", "GEOMETRY"},
}

func pointTableSpec(pg *PostGIS) *TableSpec {
	return &TableSpec{
		Name:         "building_point",
		FullName:     pg.Prefix + "building_point",
		Schema:       pg.Config.ImportSchema,
		GeometryType: "POINT",
		Srid:         pg.Config.Srid,
		Columns:      buildingColumns,
	}
}

func polygonTableSpec(pg *PostGIS) *TableSpec {
	return &TableSpec{
		Name:         "building_polygon",
		FullName:     pg.Prefix + "building_polygon",
		Schema:       pg.Config.ImportSchema,
		GeometryType: "POLYGON",
		Srid:         pg.Config.Srid,
		Columns:      buildingColumns,
	}
}

func (col *ColumnSpec) AsSQL() string {
	return fmt.Sprintf("\"%s\" %s", col.Name, col.Type)
}

func (spec *TableSpec) CreateTableSQL() string {
	cols := []string{
		"id SERIAL PRIMARY KEY",
	}
	for _, col := range spec.Columns {
		if col.Type == "GEOMETRY" {
			// geometry columns are added via AddGeometryColumn
			continue
		}
		cols = append(cols, col.AsSQL())
	}
	columnSQL := strings.Join(cols, ",\n")
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
            %s
        );`,
		spec.Schema,
		spec.FullName,
		columnSQL,
	)
}

func (spec *TableSpec) CopySQL() string {
	var cols []string
	for _, col := range spec.Columns {
		cols = append(cols, "\""+col.Name+"\"")
	}
	columns := strings.Join(cols, ", ")

	return fmt.Sprintf(`COPY "%s"."%s" (%s) FROM STDIN`,
		spec.Schema,
		spec.FullName,
		columns,
	)
}

// RowValues converts a row into insert values, in buildingColumns order.
// Nil pointers become SQL NULLs, the geometry is passed as hex EWKB.
func (spec *TableSpec) RowValues(row classify.Row) []interface{} {
	return []interface{}{
		row.OSMID,
		string(row.Category),
		strVal(row.Subcategory),
		strVal(row.Name),
		strVal(row.Address),
		strVal(row.Housenumber),
		strVal(row.Street),
		strVal(row.City),
		strVal(row.State),
		strVal(row.Wheelchair),
		strVal(row.Operator),
		intVal(row.Levels),
		floatVal(row.Height),
		string(row.Geom),
	}
}

func strVal(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func intVal(i *int64) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func floatVal(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
