package shared

import (
	"fmt"

	"github.com/pkg/browser"
)

// OpenBrowser opens the default system browser at the specified URL.
func OpenBrowser(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
