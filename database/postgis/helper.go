package postgis

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

const roadClassTableName = "road_class"

// roadClass seeds the road_class helper table. The mph value is a
// generated column, only km/h is stored.
type roadClass struct {
	Region      string
	RouteType   string
	RouteMotor  bool
	MaxspeedKmh float64
}

var defaultRoadClasses = []roadClass{
	{"United States", "motorway", true, 120},
	{"United States", "trunk", true, 110},
	{"United States", "primary", true, 100},
	{"United States", "secondary", true, 90},
	{"United States", "tertiary", true, 80},
	{"United States", "residential", true, 40},
	{"United States", "service", true, 20},
	{"United States", "unclassified", true, 30},
	{"United States", "living_street", true, 10},
	{"United States", "footway", false, 8},
	{"United States", "cycleway", false, 20},
	{"United States", "path", false, 8},
}

// createRoadClassTable creates and seeds the speed lookup table used
// by routing queries next to the building layer. Rerunning the import
// recreates the table, the UNIQUE constraint guards manual edits in
// between.
func createRoadClassTable(tx *sql.Tx, schema, prefix string) error {
	tableName := prefix + roadClassTableName
	if err := dropTableIfExists(tx, schema, tableName); err != nil {
		return err
	}

	sqlStmt := fmt.Sprintf(`
        CREATE TABLE "%s"."%s" (
            id SERIAL PRIMARY KEY,
            region VARCHAR NOT NULL,
            route_type VARCHAR NOT NULL,
            route_motor BOOLEAN NOT NULL,
            maxspeed_kmh NUMERIC NOT NULL,
            maxspeed_mph NUMERIC GENERATED ALWAYS AS (maxspeed_kmh * 0.621371) STORED,
            CONSTRAINT "%s_region_route_type_key" UNIQUE (region, route_type)
        );`,
		schema, tableName, tableName,
	)
	if _, err := tx.Exec(sqlStmt); err != nil {
		return errors.Wrapf(err, "creating table %s", tableName)
	}

	insert := fmt.Sprintf(
		`INSERT INTO "%s"."%s" (region, route_type, route_motor, maxspeed_kmh) VALUES ($1, $2, $3, $4)`,
		schema, tableName,
	)
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, rc := range defaultRoadClasses {
		if _, err := stmt.Exec(rc.Region, rc.RouteType, rc.RouteMotor, rc.MaxspeedKmh); err != nil {
			return errors.Wrapf(err, "seeding %s", tableName)
		}
	}
	return nil
}
