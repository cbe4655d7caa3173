package app

import (
	"os"
	"sync"
)

const testModeEnv = "CATALOG_TEST_MODE"

// InTestMode reports whether CATALOG_TEST_MODE=1 was set when first asked.
// Binaries check it before opening Postgres or Redis so `go test ./...`
// can build and link them without a live stack.
var InTestMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})
