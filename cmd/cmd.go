package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/osmflex/osmflex/config"
	"github.com/osmflex/osmflex/import_"
	"github.com/osmflex/osmflex/log"
)

const Version = "0.1.0"

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\timport")
	fmt.Println("\tversion")
}

func Main(usage func()) {
	if len(os.Args) <= 1 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		config.ParseImport(os.Args[2:])
		if config.ImportOptions.Quiet {
			log.SetMinLevel(log.LInfo)
		}
		import_.Import()
	case "version":
		fmt.Printf("%s %s(%s-%s-%s)", Version, runtime.Version(), runtime.GOARCH, runtime.GOOS, runtime.Compiler)
		fmt.Printf(" numcpu=%d\n", runtime.NumCPU())
		os.Exit(0)
	default:
		usage()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
	os.Exit(0)
}
