package entitlement

import (
	"fmt"
	"pawkeeper/sources/texting/format"
)

func lowRemainingMessage(remaining int) string {
	return fmt.Sprintf("You have %d AI %s left this month. Upgrade your plan for a bigger allowance.",
		remaining, format.Pluralify(remaining, "call", "calls"))
}

func graceMessage(graceLeft int) string {
	return fmt.Sprintf("Monthly allowance reached. %d grace %s before AI features pause until next month.",
		graceLeft, format.Pluralify(graceLeft, "call remains", "calls remain"))
}

func blockedMessage(tierName string) string {
	return fmt.Sprintf("The %s plan's AI allowance is used up for this month. It resets on the 1st, or upgrade for more.", tierName)
}
