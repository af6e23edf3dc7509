package executor

import (
	"strings"

	"github.com/aretw0/companion/pkg/domain"
)

var successPrefixes = []string{"Opened ", "Performed task: ", "Created ", StatusQuit}

// Succeeded reports whether status describes a completed side effect of action.
// Unknown, error and rejected actions never succeed.
func Succeeded(action domain.Action, status string) bool {
	switch action.(type) {
	case domain.OpenApp, domain.SystemTask, domain.CreateFile, domain.Quit:
	default:
		return false
	}
	if strings.Contains(status, " but failed to ") || strings.Contains(status, " but no editor ") {
		return false
	}
	for _, p := range successPrefixes {
		if strings.HasPrefix(status, p) {
			return true
		}
	}
	return false
}
