// Package testing is imported for its side effects by tests that load the
// real configuration: it marks the process as a test run and points the PDF
// pipeline at the in-process maroto renderer.
package testing

import (
	"os"
	stdtesting "testing"

	_ "github.com/skydecor/catalog/internal/testing/guard"
)

var defaults = map[string]string{
	"PDF_RENDERER":  "maroto",
	"GOTENBERG_URL": "http://127.0.0.1:0",
	"PDF_CACHE_DIR": os.TempDir(),
}

func init() {
	for key, value := range defaults {
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// TestMain lets packages delegate their TestMain here after the defaults above
// are in place.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
