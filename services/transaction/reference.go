package transaction

import (
	"fmt"

	"github.com/NexaPay/NexaPay-Backend/utils"
)

// Reference prefixes per operation. The suffix carries the entropy; the
// prefix keeps references human-traceable in provider dashboards.
const (
	PrefixDeposit    = "DEP"
	PrefixWithdrawal = "WDR"
	PrefixTransfer   = "TRF"
	PrefixAirtime    = "AIR"
	PrefixData       = "DAT"
)

const referenceSuffixLength = 8

// maxReferenceAttempts bounds regenerate-and-retry when a generated
// reference collides with the unique index.
const maxReferenceAttempts = 3

// GenerateReference returns e.g. "DEP-4K7Q2M9X". Uniqueness is enforced by
// the store; callers retry on a duplicate-entry error.
func GenerateReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, utils.GenerateRandomString(referenceSuffixLength))
}

// vasPrefix derives the reference prefix from a VAS service type,
// e.g. AIRTIME -> AIR, DATA -> DAT.
func vasPrefix(serviceType TransactionType) string {
	s := string(serviceType)
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}
