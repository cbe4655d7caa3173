package shared

import (
	"fmt"
	"strings"
)

// DatasheetLockKey builds redis keys guarding datasheet generation for a product code.
func DatasheetLockKey(code string) string {
	return fmt.Sprintf("catalog:datasheet:%s:lock", strings.ToUpper(strings.TrimSpace(code)))
}
