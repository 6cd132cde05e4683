package products

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const referencePrefix = "REF"

// buildReference derives the human-facing catalog reference from the product
// id and name: REF + first id block + up to three name letters.
func buildReference(id uuid.UUID, name string) string {
	idPart := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:8]

	var letters strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters.WriteRune(r)
			if letters.Len() == 3 {
				break
			}
		}
	}
	return referencePrefix + idPart + letters.String()
}

// withSuffix disambiguates a colliding reference.
func withSuffix(reference string, attempt int) string {
	if attempt <= 0 {
		return reference
	}
	return reference + "-" + strconv.Itoa(attempt)
}
