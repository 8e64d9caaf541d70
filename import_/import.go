/*
Package import_ provides the import sub command.
*/
package import_

import (
	"context"
	"os"
	"runtime"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/pbf"
	"github.com/pkg/errors"

	"github.com/osmflex/osmflex/cache"
	"github.com/osmflex/osmflex/classify"
	"github.com/osmflex/osmflex/config"
	"github.com/osmflex/osmflex/database/postgis"
	"github.com/osmflex/osmflex/log"
	"github.com/osmflex/osmflex/stats"
	"github.com/osmflex/osmflex/writer"
)

func Import() {
	opts := &config.ImportOptions

	if (opts.Write || opts.Read != "") && (opts.RevertDeploy || opts.RemoveBackup) {
		log.Fatal("-revertdeploy and -removebackup not compatible with -read/-write")
	}
	if opts.RevertDeploy && (opts.RemoveBackup || opts.DeployProduction) {
		log.Fatal("-revertdeploy not compatible with -deployproduction/-removebackup")
	}
	if opts.Write && opts.Read == "" {
		log.Fatal("-write requires -read, the importer writes in a single pass")
	}

	var db *postgis.PostGIS
	if opts.Write || opts.DeployProduction || opts.RevertDeploy || opts.RemoveBackup || opts.Optimize {
		var err error
		db, err = postgis.New(postgis.Config{
			ConnectionParams: opts.Connection,
			Srid:             opts.Srid,
			ImportSchema:     opts.Schemas.Import,
			ProductionSchema: opts.Schemas.Production,
			BackupSchema:     opts.Schemas.Backup,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	if opts.Read != "" {
		if err := prepareCacheDir(opts.CacheDir, opts.Overwritecache, opts.Appendcache); err != nil {
			log.Fatal(err)
		}
		writeDb := db
		if !opts.Write {
			writeDb = nil
		}
		if err := run(opts, writeDb); err != nil {
			log.Fatal(err)
		}
	}

	if opts.Optimize {
		if err := db.Optimize(); err != nil {
			log.Fatal(err)
		}
	}

	if opts.DeployProduction {
		if err := db.Deploy(); err != nil {
			log.Fatal(err)
		}
	}
	if opts.RevertDeploy {
		if err := db.RevertDeploy(); err != nil {
			log.Fatal(err)
		}
	}
	if opts.RemoveBackup {
		if err := db.RemoveBackup(); err != nil {
			log.Fatal(err)
		}
	}
}

func prepareCacheDir(dir string, overwrite, appendCache bool) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if overwrite {
		log.Printf("[info] removing existing cache %s", dir)
		return os.RemoveAll(dir)
	}
	if !appendCache {
		log.Fatal("cache already exists, use -appendcache or -overwritecache")
	}
	return nil
}

// run parses the PBF in a single pass: node coordinates are stored in
// the coords cache, tagged nodes and closed ways stream through the
// classification pipeline into the database.
func run(opts *config.Import, db *postgis.PostGIS) error {
	defer log.Step("Importing OSM data")()

	f, err := os.Open(opts.Read)
	if err != nil {
		return err
	}
	defer f.Close()

	coordsCache, err := cache.NewCoordsCache(opts.CacheDir)
	if err != nil {
		return err
	}
	defer coordsCache.Close()

	if db != nil {
		if err := db.Init(); err != nil {
			return err
		}
		if err := db.BeginBulk(); err != nil {
			return err
		}
	}

	progress := stats.NewProgress()
	defer progress.Stop()

	classifier := &classify.Classifier{Language: opts.Language}
	pipeline := &classify.Pipeline{}
	if db != nil {
		pipeline.AppendNodeHandler(&writer.PointSink{
			Classifier: classifier,
			Srid:       opts.Srid,
			Inserter:   db,
			Progress:   progress,
		})
		pipeline.AppendWayHandler(&writer.PolygonSink{
			Classifier: classifier,
			Srid:       opts.Srid,
			Inserter:   db,
			Progress:   progress,
		})
	}

	coords := make(chan []osm.Node, 4)
	nodes := make(chan []osm.Node, 4)
	ways := make(chan []osm.Way, 4)

	// Coord batches are cached by a single goroutine. The parser blocks
	// all workers in OnFirstWay, a nil batch marks the end of the coords
	// already sent and coordsSynced unblocks way parsing after the cache
	// is complete.
	coordsSynced := make(chan struct{})
	cacheErr := make(chan error, 1)
	go func() {
		var firstErr error
		for batch := range coords {
			if batch == nil {
				coordsSynced <- struct{}{}
				continue
			}
			if firstErr == nil {
				if err := coordsCache.PutCoords(batch); err != nil {
					firstErr = err
				}
			}
			progress.AddCoords(len(batch))
		}
		cacheErr <- firstErr
	}()

	nodeWriter := writer.NewNodeWriter(nodes, pipeline, progress)
	nodeWriter.Start()
	wayWriter := writer.NewWayWriter(ways, coordsCache, pipeline, progress)
	wayWriter.Start()

	parser := pbf.New(f, pbf.Config{
		Coords:      coords,
		Nodes:       nodes,
		Ways:        ways,
		Concurrency: runtime.NumCPU(),
		OnFirstWay: func() {
			coords <- nil
			<-coordsSynced
		},
	})

	// The parser only closes the element channels on success. Return
	// without waiting for the writers on errors, the import is aborted
	// anyway.
	if err := parser.Parse(context.Background()); err != nil {
		if db != nil {
			db.AbortBulk()
		}
		return errors.Wrap(err, "parsing pbf")
	}

	nodeWriter.Wait()
	wayWriter.Wait()
	if err := <-cacheErr; err != nil {
		if db != nil {
			db.AbortBulk()
		}
		return err
	}

	if db != nil {
		if err := db.EndBulk(); err != nil {
			return err
		}
		if err := db.Finish(); err != nil {
			return err
		}
	}
	return nil
}
