package postgis

import (
	"fmt"

	"github.com/osmflex/osmflex/log"

	"github.com/pkg/errors"
)

func (pg *PostGIS) rotate(source, dest, backup string) error {
	defer log.Step(fmt.Sprintf("Rotating tables from %s to %s", source, dest))()

	if err := pg.createSchema(dest); err != nil {
		return err
	}
	if err := pg.createSchema(backup); err != nil {
		return err
	}

	tx, err := pg.Db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	tables := []string{
		pg.Point.FullName,
		pg.Polygon.FullName,
		pg.Prefix + roadClassTableName,
	}
	for _, tableName := range tables {
		log.Printf("[info] Rotating %s from %s -> %s -> %s", tableName, source, dest, backup)

		sourceExists, err := tableExists(tx, source, tableName)
		if err != nil {
			return err
		}
		destExists, err := tableExists(tx, dest, tableName)
		if err != nil {
			return err
		}

		if !sourceExists {
			log.Printf("[warn] Skipping rotate of %s, table does not exist in %s", tableName, source)
			continue
		}

		if destExists {
			log.Printf("[info] Backup of %s, to %s", tableName, backup)
			if err := dropTableIfExists(tx, backup, tableName); err != nil {
				return err
			}
			sql := fmt.Sprintf(`ALTER TABLE "%s"."%s" SET SCHEMA "%s"`, dest, tableName, backup)
			if _, err := tx.Exec(sql); err != nil {
				return errors.Wrapf(err, "backing up %s", tableName)
			}
		}

		sql := fmt.Sprintf(`ALTER TABLE "%s"."%s" SET SCHEMA "%s"`, source, tableName, dest)
		if _, err := tx.Exec(sql); err != nil {
			return errors.Wrapf(err, "rotating %s", tableName)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil
	return nil
}

// Deploy moves the imported tables from the import schema to the
// production schema. Existing production tables are moved to the
// backup schema first.
func (pg *PostGIS) Deploy() error {
	return pg.rotate(pg.Config.ImportSchema, pg.Config.ProductionSchema, pg.Config.BackupSchema)
}

// RevertDeploy moves the tables from the backup schema back to production.
func (pg *PostGIS) RevertDeploy() error {
	return pg.rotate(pg.Config.BackupSchema, pg.Config.ProductionSchema, pg.Config.ImportSchema)
}

// RemoveBackup drops the backup tables.
func (pg *PostGIS) RemoveBackup() error {
	tx, err := pg.Db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	backup := pg.Config.BackupSchema
	tables := []string{
		pg.Point.FullName,
		pg.Polygon.FullName,
		pg.Prefix + roadClassTableName,
	}
	for _, tableName := range tables {
		log.Printf("[info] Removing backup of %s from %s", tableName, backup)
		if err := dropTableIfExists(tx, backup, tableName); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil
	return nil
}
