package engine

import (
	"github.com/go-rod/rod"

	"applyflow/internal/logging/types"
)

// lockedControlSelector matches text controls the fill pass could not
// write into. Unlocking removes the matched attributes, so controls
// stop matching once processed and repeat passes find nothing.
const lockedControlSelector = "input[readonly], input[disabled], textarea[readonly], textarea[disabled]"

// unlockFields strips readonly and disabled attributes from text controls
// so the reviewer can hand-edit anything the fill pass could not touch.
// Runs after filling, never before. Idempotent.
func unlockFields(page *rod.Page, logger types.Logger) int {
	els, err := page.Elements(lockedControlSelector)
	if err != nil {
		logger.Debug("Unlock scan failed", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}

	unlocked := 0
	for _, el := range els {
		err := rod.Try(func() {
			el.MustEval(`() => {
				this.removeAttribute('readonly')
				this.removeAttribute('disabled')
			}`)
		})
		if err != nil {
			continue
		}
		unlocked++
	}

	if unlocked > 0 {
		logger.Debug("Unlocked locked controls for manual review", map[string]interface{}{
			"count": unlocked,
		})
	}
	return unlocked
}
