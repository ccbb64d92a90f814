// Command pkgvcs builds package registry records from hosted repositories
// and reads the registry's ban and featured lists.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

var version = "dev" // Set at build time using -ldflags

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pkgvcs",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: os.Stderr,
	})

	if err := NewRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv("PKGVCS_LOG_LEVEL"))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "warn"
	}
}

// fail is returned after a failed envelope has been printed so the process
// exits non-zero.
type fail struct {
	short string
}

func (f *fail) Error() string {
	return fmt.Sprintf("operation failed: %s", f.short)
}
