package parser

import (
	"strings"
)

// UnknownPoP is returned when no site group can be derived from an
// OLT name.
const UnknownPoP = "Unknown PoP"

// DerivePoP extracts the site-group label from an OLT name following
// the "<model>-<unit>-<site>" naming convention. The branch order is
// load-bearing: downstream grouping depends on exactly this behavior,
// including its misclassification of names outside the convention.
func DerivePoP(oltName string) string {
	parts := strings.Split(oltName, "-")
	if len(parts) < 3 {
		return UnknownPoP
	}

	last := parts[len(parts)-1]

	// NOC sites keep their short suffix verbatim
	if strings.HasSuffix(strings.ToUpper(last), "NOC1") {
		return last
	}

	if len(last) >= 5 {
		return last
	}

	// Short trailing segment: the site name spans the last two segments
	if len(parts) >= 4 {
		return parts[len(parts)-2] + "-" + last
	}

	return UnknownPoP
}
