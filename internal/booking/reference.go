package booking

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	referenceIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	REFERENCE_ID_LEN = 10
	EXTENSION_PREFIX = "EXT_"
	EXTENSION_DESC   = "BKWE"
)

// Payment description codes per locker size.
const (
	TRANSACTION_SMALL  = "BKWF0"
	TRANSACTION_MEDIUM = "BKWF1"
	TRANSACTION_LARGE  = "BKWF2"
)

var ErrUnknownLockerSize = errors.New("unknown locker size")

var transactionDescriptions = map[LockerSize]string{
	LockerSmall:  TRANSACTION_SMALL,
	LockerMedium: TRANSACTION_MEDIUM,
	LockerLarge:  TRANSACTION_LARGE,
}

type LockerSize string

const (
	LockerSmall  LockerSize = "small"
	LockerMedium LockerSize = "medium"
	LockerLarge  LockerSize = "large"
)

// LockerSizes in display order.
var LockerSizes = []LockerSize{LockerSmall, LockerMedium, LockerLarge}

func ParseLockerSize(s string) (LockerSize, error) {
	size := LockerSize(strings.ToLower(strings.TrimSpace(s)))
	switch size {
	case LockerSmall, LockerMedium, LockerLarge:
		return size, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLockerSize, s)
}

// GenerateReferenceID returns 10 random characters from [A-Z0-9].
// Not cryptographically random; the server is the source of truth for duplicates.
func GenerateReferenceID() string {
	var sb strings.Builder
	sb.Grow(REFERENCE_ID_LEN)
	for range REFERENCE_ID_LEN {
		sb.WriteByte(referenceIDChars[rand.IntN(len(referenceIDChars))])
	}
	return sb.String()
}

func GenerateExtensionReferenceID() string {
	return EXTENSION_PREFIX + GenerateReferenceID()
}

// TransactionDescription maps a locker size to its payment description code.
func TransactionDescription(size LockerSize) (string, error) {
	if desc, ok := transactionDescriptions[size]; ok {
		return desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLockerSize, string(size))
}

func ExtensionTransactionDescription(lockerID string) string {
	return EXTENSION_DESC + lockerID
}
