// Package guard flags the process as a test run so binaries and config
// loaders skip live connections.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CATALOG_TEST_MODE") == "" {
			_ = os.Setenv("CATALOG_TEST_MODE", "1")
		}
	})
}
