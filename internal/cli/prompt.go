package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// askOne is replaced in tests.
var askOne = survey.AskOne

// confirmWrite lists paths and asks before they are written. An empty list
// means no question.
func confirmWrite(action string, paths []string) (bool, error) {
	if len(paths) == 0 {
		return true, nil
	}
	printWarning(fmt.Sprintf("%d file(s) will be %s:", len(paths), action))
	for _, p := range paths {
		printInfo("  " + p)
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: "Continue?",
		Default: false,
	}
	if err := askOne(prompt, &confirmed); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}
