package ledger

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Entity id construction. Ids are derived only from chain addresses, hashes
// and timestamps so reprocessing an event resolves the same entities.
// Addresses are fixed-length hex, so the "-" separator cannot collide with
// id content.

// AddressID formats an address as a lowercase hex entity id.
func AddressID(address common.Address) string {
	return strings.ToLower(address.Hex())
}

// PositionID builds the id of a (pair, user) liquidity position.
func PositionID(pair, user common.Address) string {
	return AddressID(pair) + "-" + AddressID(user)
}

// SnapshotID appends the second-resolution block timestamp to a position
// id. Two events touching the same position within one second map to the
// same id; the later snapshot overwrites the earlier one.
func SnapshotID(positionID string, timestamp uint64) string {
	return positionID + strconv.FormatUint(timestamp, 10)
}

// TransferID keys a base transfer by its transaction hash.
func TransferID(txHash string) string {
	return strings.ToLower(txHash)
}
