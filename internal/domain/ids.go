package domain

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

var hexAddressPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{1,64}$`)

// entityNamespace is the uuid v5 namespace for derived collection/nft/commission/contract ids
var entityNamespace = uuid.MustParse("7d8f3b4e-1a52-5c5e-9f0b-6b2a4c1d9e30")

// StandardizeAddress normalizes an account or object address to lower-case 0x + 64 hex chars.
// Inputs that are not hex addresses are returned trimmed and lower-cased.
func StandardizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if !hexAddressPattern.MatchString(addr) {
		return strings.ToLower(addr)
	}
	return strings.ToLower(common.HexToHash(addr).Hex())
}

// SynthesizeCollectionID derives a content-addressed collection id from creator and collection name
func SynthesizeCollectionID(creator, collection string) string {
	return hashParts(StandardizeAddress(creator), collection)
}

// SynthesizeTokenDataID derives a content-addressed token id from creator, collection and token name
func SynthesizeTokenDataID(creator, collection, token string) string {
	return hashParts(StandardizeAddress(creator), collection, token)
}

// EntityID derives the primary key of a resource-derived entity
func EntityID(parts ...string) string {
	return uuid.NewSHA1(entityNamespace, []byte(strings.Join(parts, "::"))).String()
}

func hashParts(parts ...string) string {
	return crypto.Keccak256Hash([]byte(strings.Join(parts, "::"))).Hex()
}

// StandardizeType normalizes the address prefix of a fully qualified move type,
// e.g. 0x1::object::Transfer -> 0x00..01::object::Transfer
func StandardizeType(moveType string) string {
	moveType = strings.TrimSpace(moveType)
	addr, rest, ok := strings.Cut(moveType, "::")
	if !ok {
		return moveType
	}
	return StandardizeAddress(addr) + "::" + rest
}
