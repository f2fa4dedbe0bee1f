package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultCompanySKUPrefix = "CMP"
	defaultProductSKUPrefix = "PRD"
)

// GenerateSKU builds a candidate SKU as company prefix (3 chars), product
// prefix (4 chars), the last 4 digits of the unix timestamp and 3 random
// hex characters. Uniqueness within the company is checked by the caller.
func GenerateSKU(companyName, productName string, at time.Time) string {
	companyPrefix := alnumPrefix(companyName, 3)
	if companyPrefix == "" {
		companyPrefix = defaultCompanySKUPrefix
	}
	namePrefix := alnumPrefix(productName, 4)
	if namePrefix == "" {
		namePrefix = defaultProductSKUPrefix
	}

	ts := strconv.FormatInt(at.Unix(), 10)
	if len(ts) > 4 {
		ts = ts[len(ts)-4:]
	}
	suffix := strings.ToUpper(uuid.NewString()[:3])

	return companyPrefix + namePrefix + ts + suffix
}

// alnumPrefix keeps ASCII letters and digits of s, upper-cased, up to n characters
func alnumPrefix(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == n {
			break
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
