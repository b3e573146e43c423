// Package payment builds the outbound Cash App link a guest follows to
// pay. Nothing comes back from Cash App: an administrator confirms
// payments by hand.
package payment

import (
	"strconv"
	"strings"
)

const cashAppBase = "https://cash.app/$"

// Link returns the Cash App deep link for paying amount to tag. A
// leading '$' on the tag is optional.
func Link(tag string, amount float64) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "$")
	return cashAppBase + tag + "/" + strconv.FormatFloat(amount, 'f', -1, 64)
}
