package domain

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind represents the type of a committed state transition
type EventKind string

const (
	EventKindProtocolInitialized  EventKind = "protocol_initialized"
	EventKindItemAdded            EventKind = "item_added"
	EventKindItemCancelled        EventKind = "item_cancelled"
	EventKindItemMetadataUpdated  EventKind = "item_metadata_updated"
	EventKindItemBought           EventKind = "item_bought"
	EventKindItemAccepted         EventKind = "item_accepted"
	EventKindRoyaltyClaimed       EventKind = "royalty_claimed"
	EventKindServiceFeeSet        EventKind = "service_fee_set"
	EventKindCollectionAdded      EventKind = "collection_added"
	EventKindCollectionRemoved    EventKind = "collection_removed"
	EventKindCollectionMarketSet  EventKind = "collection_market_set"
	EventKindRoyaltyPolicySet     EventKind = "royalty_policy_set"
	EventKindTeamWalletSet        EventKind = "team_wallet_set"
	EventKindSignerSet            EventKind = "signer_set"
	EventKindOwnershipTransferred EventKind = "ownership_transferred"
	EventKindCounterSet           EventKind = "counter_set"
	EventKindProtocolUpgraded     EventKind = "protocol_upgraded"
	EventKindPaymentDeposited     EventKind = "payment_deposited"
	EventKindPaymentApproved      EventKind = "payment_approved"
	EventKindAssetApprovalSet     EventKind = "asset_approval_set"
)

// JournalEntry is an append-only, hash-chained record of a committed operation
type JournalEntry struct {
	Sequence    int64           `json:"sequence"`
	EventID     string          `json:"event_id"`
	Kind        EventKind       `json:"kind"`
	Subject     string          `json:"subject"`
	Payload     json.RawMessage `json:"payload"`
	PayloadHash common.Hash     `json:"payload_hash"`
	PrevHash    common.Hash     `json:"prev_hash"`
	EntryHash   common.Hash     `json:"entry_hash"`
	CreatedAt   time.Time       `json:"created_at"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}
