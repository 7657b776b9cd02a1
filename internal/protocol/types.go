package protocol

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// LogicVersion is the settlement logic shipped by this binary. Upgrade records it.
const LogicVersion = 2

// InitParams bootstraps the protocol config
type InitParams struct {
	Admin         common.Address
	Signer        common.Address
	TeamWallet    common.Address
	PaymentToken  common.Address
	Custody       common.Address
	ServiceFeeBps uint16
}

// Version describes the schema and logic versions of a deployment
type Version struct {
	// Schema is the applied schema version
	Schema int
	// RequiredSchema is the schema version this binary needs
	RequiredSchema int
	// Logic is the logic version recorded by the last upgrade, 0 before initialization
	Logic int
	// BinaryLogic is LogicVersion
	BinaryLogic int
}

type configEvent struct {
	Admin         string `json:"admin"`
	Signer        string `json:"signer"`
	TeamWallet    string `json:"team_wallet"`
	PaymentToken  string `json:"payment_token"`
	Custody       string `json:"custody"`
	ServiceFeeBps int    `json:"service_fee_bps"`
	Counter       string `json:"counter"`
	LogicVersion  int    `json:"logic_version"`
}

func newConfigEvent(cfg *domain.ProtocolConfig) configEvent {
	return configEvent{
		Admin:         cfg.Admin.Hex(),
		Signer:        cfg.Signer.Hex(),
		TeamWallet:    cfg.TeamWallet.Hex(),
		PaymentToken:  cfg.PaymentToken.Hex(),
		Custody:       cfg.Custody.Hex(),
		ServiceFeeBps: int(cfg.ServiceFeeBps),
		Counter:       domain.CloneInt(cfg.Counter).String(),
		LogicVersion:  cfg.LogicVersion,
	}
}

type collectionEvent struct {
	Collection string `json:"collection"`
	Trusted    bool   `json:"trusted"`
	Standard   string `json:"standard"`
	Market     string `json:"market"`
}

type royaltyPolicyEvent struct {
	Collection  string `json:"collection"`
	Beneficiary string `json:"beneficiary"`
	Bps         int    `json:"bps"`
}

type depositEvent struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}
