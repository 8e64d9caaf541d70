package postgis

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/osmflex/osmflex/classify"
	"github.com/osmflex/osmflex/log"

	pq "github.com/lib/pq"
	"github.com/pkg/errors"
)

type Config struct {
	ConnectionParams string
	Srid             int
	ImportSchema     string
	ProductionSchema string
	BackupSchema     string
}

type PostGIS struct {
	Db      *sql.DB
	Params  string
	Config  Config
	Prefix  string
	Point   *TableSpec
	Polygon *TableSpec

	pointTx   *tableTx
	polygonTx *tableTx
}

func New(conf Config) (*PostGIS, error) {
	params := conf.ConnectionParams
	if strings.HasPrefix(params, "postgis:") {
		params = strings.Replace(params, "postgis", "postgres", 1)
	}
	params, err := pq.ParseURL(params)
	if err != nil {
		return nil, errors.Wrap(err, "parsing connection params")
	}
	params = disableDefaultSslOnLocalhost(params)
	prefix := prefixFromConnectionParams(&params)

	pg := &PostGIS{
		Params: params,
		Config: conf,
		Prefix: prefix,
	}
	pg.Point = pointTableSpec(pg)
	pg.Polygon = polygonTableSpec(pg)

	if err := pg.Open(); err != nil {
		return nil, err
	}
	return pg, nil
}

func (pg *PostGIS) Open() error {
	var err error
	pg.Db, err = sql.Open("postgres", pg.Params)
	if err != nil {
		return err
	}
	// sql.Open is lazy, fail fast on bad credentials
	if err = pg.Db.Ping(); err != nil {
		return err
	}
	return nil
}

func (pg *PostGIS) Close() error {
	return pg.Db.Close()
}

// Init creates the import schema and the point and polygon tables.
// Existing import tables are dropped first.
func (pg *PostGIS) Init() error {
	if err := pg.createSchema(pg.Config.ImportSchema); err != nil {
		return err
	}

	tx, err := pg.Db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	for _, spec := range []*TableSpec{pg.Point, pg.Polygon} {
		if err := dropTableIfExists(tx, spec.Schema, spec.FullName); err != nil {
			return err
		}
		if _, err := tx.Exec(spec.CreateTableSQL()); err != nil {
			return errors.Wrapf(err, "creating table %s", spec.FullName)
		}
		err = addGeometryColumn(tx, spec)
		if err != nil {
			return err
		}
	}
	if err := createRoadClassTable(tx, pg.Config.ImportSchema, pg.Prefix); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil
	return nil
}

func (pg *PostGIS) createSchema(schema string) error {
	if schema == "public" {
		return nil
	}
	row := pg.Db.QueryRow(
		"SELECT EXISTS(SELECT schema_name FROM information_schema.schemata WHERE schema_name = $1)",
		schema,
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err := pg.Db.Exec(fmt.Sprintf(`CREATE SCHEMA "%s"`, schema))
	if err != nil {
		return errors.Wrapf(err, "creating schema %s", schema)
	}
	return nil
}

func addGeometryColumn(tx *sql.Tx, spec *TableSpec) error {
	geomType := strings.ToUpper(spec.GeometryType)
	sql := fmt.Sprintf("SELECT AddGeometryColumn('%s', '%s', 'geometry', %d, '%s', 2);",
		spec.Schema, spec.FullName, spec.Srid, geomType)
	if _, err := tx.Exec(sql); err != nil {
		return errors.Wrapf(err, "adding geometry column to %s", spec.FullName)
	}
	return nil
}

// BeginBulk starts the COPY transactions for both tables.
func (pg *PostGIS) BeginBulk() error {
	pg.pointTx = newTableTx(pg, pg.Point)
	if err := pg.pointTx.Begin(nil); err != nil {
		return err
	}
	pg.polygonTx = newTableTx(pg, pg.Polygon)
	if err := pg.polygonTx.Begin(nil); err != nil {
		pg.pointTx.Rollback()
		return err
	}
	return nil
}

func (pg *PostGIS) InsertPoint(row classify.Row) {
	pg.pointTx.Insert(pg.Point.RowValues(row))
}

func (pg *PostGIS) InsertPolygon(row classify.Row) {
	pg.polygonTx.Insert(pg.Polygon.RowValues(row))
}

// EndBulk commits the COPY transactions.
func (pg *PostGIS) EndBulk() error {
	if err := pg.pointTx.Commit(); err != nil {
		pg.polygonTx.Rollback()
		return err
	}
	return pg.polygonTx.Commit()
}

func (pg *PostGIS) AbortBulk() {
	if pg.pointTx != nil {
		pg.pointTx.Rollback()
	}
	if pg.polygonTx != nil {
		pg.polygonTx.Rollback()
	}
}

// Finish creates the geometry and osm_id indexes, using separate
// connections for each table.
func (pg *PostGIS) Finish() error {
	defer log.Step("Creating indexes")()

	p := newWorkerPool(2, 2)
	for _, spec := range []*TableSpec{pg.Point, pg.Polygon} {
		tableName := spec.FullName
		schema := spec.Schema
		p.in <- func() error {
			sql := fmt.Sprintf(`CREATE INDEX "%s_geom" ON "%s"."%s" USING GIST ("geometry")`,
				tableName, schema, tableName)
			step := log.Step(fmt.Sprintf("Creating geometry index on %s", tableName))
			if _, err := pg.Db.Exec(sql); err != nil {
				return err
			}
			step()

			sql = fmt.Sprintf(`CREATE INDEX "%s_osm_id_idx" ON "%s"."%s" USING BTREE ("osm_id")`,
				tableName, schema, tableName)
			step = log.Step(fmt.Sprintf("Creating OSM id index on %s", tableName))
			if _, err := pg.Db.Exec(sql); err != nil {
				return err
			}
			step()
			return nil
		}
	}
	return p.wait()
}

// Optimize clusters the tables on the geometry of their rows and
// refreshes the table statistics.
func (pg *PostGIS) Optimize() error {
	defer log.Step("Clustering on geometry")()

	p := newWorkerPool(2, 2)
	for _, spec := range []*TableSpec{pg.Point, pg.Polygon} {
		tableName := spec.FullName
		schema := spec.Schema
		p.in <- func() error {
			step := log.Step(fmt.Sprintf("Indexing %s on geohash", tableName))
			sql := fmt.Sprintf(`CREATE INDEX "%s_geom_geohash" ON "%s"."%s" (ST_GeoHash(ST_Transform(ST_SetSRID(Box2D(geometry), %d), 4326)))`,
				tableName, schema, tableName, spec.Srid)
			if _, err := pg.Db.Exec(sql); err != nil {
				return err
			}
			step()

			step = log.Step(fmt.Sprintf("Clustering %s on geohash", tableName))
			sql = fmt.Sprintf(`CLUSTER "%s_geom_geohash" ON "%s"."%s"`,
				tableName, schema, tableName)
			if _, err := pg.Db.Exec(sql); err != nil {
				return err
			}
			step()
			return nil
		}
	}
	if err := p.wait(); err != nil {
		return err
	}

	step := log.Step("Analysing tables")
	for _, spec := range []*TableSpec{pg.Point, pg.Polygon} {
		sql := fmt.Sprintf(`ANALYSE "%s"."%s"`, spec.Schema, spec.FullName)
		if _, err := pg.Db.Exec(sql); err != nil {
			return err
		}
	}
	step()
	return nil
}
