package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the optional YAML configuration file. Command line flags
// take precedence over values from the file.
type Config struct {
	CacheDir   string  `yaml:"cachedir"`
	Connection string  `yaml:"connection"`
	Srid       int     `yaml:"srid"`
	Language   string  `yaml:"language"`
	Schemas    Schemas `yaml:"schemas"`
}

type Schemas struct {
	Import     string `yaml:"import"`
	Production string `yaml:"production"`
	Backup     string `yaml:"backup"`
}

const defaultSrid = 3857
const defaultCacheDir = "/tmp/osmflex"
const defaultSchemaImport = "import"
const defaultSchemaProduction = "public"
const defaultSchemaBackup = "backup"

type Base struct {
	Connection string
	CacheDir   string
	Srid       int
	Language   string
	ConfigFile string
	Quiet      bool
	Schemas    Schemas
}

type Import struct {
	Base
	Read             string
	Write            bool
	Optimize         bool
	Overwritecache   bool
	Appendcache      bool
	DeployProduction bool
	RevertDeploy     bool
	RemoveBackup     bool
}

var ImportFlags = flag.NewFlagSet("import", flag.ExitOnError)

var ImportOptions = Import{}

func addBaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.Connection, "connection", "", "connection parameters")
	flags.StringVar(&opts.CacheDir, "cachedir", defaultCacheDir, "cache directory")
	flags.IntVar(&opts.Srid, "srid", defaultSrid, "srs id")
	flags.StringVar(&opts.Language, "language", "", "preferred language for names (e.g. en)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config (yaml)")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
	flags.StringVar(&opts.Schemas.Import, "dbschema-import", defaultSchemaImport, "db schema for imports")
	flags.StringVar(&opts.Schemas.Production, "dbschema-production", defaultSchemaProduction, "db schema for production")
	flags.StringVar(&opts.Schemas.Backup, "dbschema-backup", defaultSchemaBackup, "db schema for backups")
}

func init() {
	ImportFlags.Usage = UsageImport

	addBaseFlags(&ImportOptions.Base, ImportFlags)
	ImportFlags.StringVar(&ImportOptions.Read, "read", "", "read PBF file")
	ImportFlags.BoolVar(&ImportOptions.Write, "write", false, "write to database")
	ImportFlags.BoolVar(&ImportOptions.Optimize, "optimize", false, "optimize tables after import")
	ImportFlags.BoolVar(&ImportOptions.Overwritecache, "overwritecache", false, "overwrite existing cache")
	ImportFlags.BoolVar(&ImportOptions.Appendcache, "appendcache", false, "append to existing cache")
	ImportFlags.BoolVar(&ImportOptions.DeployProduction, "deployproduction", false, "move imported tables to production schema")
	ImportFlags.BoolVar(&ImportOptions.RevertDeploy, "revertdeploy", false, "revert deploy to production")
	ImportFlags.BoolVar(&ImportOptions.RemoveBackup, "removebackup", false, "remove backups from deploy")
}

// setFlags returns the names of all flags that were given on the
// command line, including flags set to their default value.
func setFlags(flags *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// updateFromConfig merges values from the YAML config file for all
// options that were not given on the command line. An explicit
// -srid=3857 wins over the config file, even though it matches the
// flag default.
func (o *Base) updateFromConfig(set map[string]bool) error {
	conf := &Config{
		CacheDir: defaultCacheDir,
		Srid:     defaultSrid,
	}

	if o.ConfigFile != "" {
		b, err := ioutil.ReadFile(o.ConfigFile)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, &conf); err != nil {
			return errors.Wrapf(err, "parsing config %s", o.ConfigFile)
		}
	}

	if conf.Schemas.Import != "" && !set["dbschema-import"] {
		o.Schemas.Import = conf.Schemas.Import
	}
	if conf.Schemas.Production != "" && !set["dbschema-production"] {
		o.Schemas.Production = conf.Schemas.Production
	}
	if conf.Schemas.Backup != "" && !set["dbschema-backup"] {
		o.Schemas.Backup = conf.Schemas.Backup
	}
	if conf.Connection != "" && !set["connection"] {
		o.Connection = conf.Connection
	}
	if conf.Srid == 0 {
		conf.Srid = defaultSrid
	}
	if !set["srid"] {
		o.Srid = conf.Srid
	}
	if conf.Language != "" && !set["language"] {
		o.Language = conf.Language
	}
	if conf.CacheDir != "" && !set["cachedir"] {
		o.CacheDir = conf.CacheDir
	}
	return nil
}

func (o *Base) check() []error {
	errs := []error{}
	if o.Srid != 3857 && o.Srid != 4326 {
		errs = append(errs, errors.New("only -srid=3857 or -srid=4326 are supported"))
	}
	if o.Connection == "" {
		errs = append(errs, errors.New("missing connection"))
	}
	return errs
}

func UsageImport() {
	fmt.Fprintf(os.Stderr, "Usage: %s %s [args]\n\n", os.Args[0], os.Args[1])
	ImportFlags.PrintDefaults()
	os.Exit(2)
}

func ParseImport(args []string) {
	if len(args) == 0 {
		UsageImport()
	}
	if err := ImportFlags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := ImportOptions.updateFromConfig(setFlags(ImportFlags)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	errs := ImportOptions.check()
	if len(errs) != 0 {
		reportErrors(errs)
		UsageImport()
	}
}

func reportErrors(errs []error) {
	fmt.Println("errors in config/options:")
	for _, err := range errs {
		fmt.Printf("\t%s\n", err)
	}
	os.Exit(1)
}
