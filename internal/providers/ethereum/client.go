package ethereum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
)

// ERC-165 interface ids
var (
	interfaceERC721  = [4]byte{0x80, 0xac, 0x58, 0xcd}
	interfaceERC1155 = [4]byte{0xd9, 0xb6, 0x7a, 0x26}
)

const supportsInterfaceABI = `[{"constant":true,"inputs":[{"name":"interfaceId","type":"bytes4"}],"name":"supportsInterface","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"view","type":"function"}]`

// ErrNotContract is returned when no code is deployed at the address
var ErrNotContract = errors.New("no contract code at address")

// Client probes collection contracts over JSON-RPC
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=Client=MockEthereumClient
type Client interface {
	// DetectStandard reports whether a collection implements ERC-1155 or ERC-721 via ERC-165
	DetectStandard(ctx context.Context, collection common.Address) (domain.ChainStandard, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	client adapter.EthClient
	abi    abi.ABI
}

// NewClient creates a new collection prober over an Ethereum JSON-RPC client
func NewClient(client adapter.EthClient) (Client, error) {
	parsed, err := abi.JSON(strings.NewReader(supportsInterfaceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &ethereumClient{client: client, abi: parsed}, nil
}

// Dial connects to an Ethereum JSON-RPC endpoint and returns a Client over it
func Dial(ctx context.Context, dialer adapter.EthClientDialer, rpcURL string) (Client, error) {
	conn, err := dialer.Dial(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ethereum rpc: %w", err)
	}
	client, err := NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

func (c *ethereumClient) DetectStandard(ctx context.Context, collection common.Address) (domain.ChainStandard, error) {
	code, err := c.client.CodeAt(ctx, collection, nil)
	if err != nil {
		return domain.StandardUnknown, fmt.Errorf("failed to get code: %w", err)
	}
	if len(code) == 0 {
		return domain.StandardUnknown, fmt.Errorf("%w: %s", ErrNotContract, collection.Hex())
	}

	// ERC-1155 first: some multi-token contracts also answer true for ERC-721
	for _, probe := range []struct {
		id       [4]byte
		standard domain.ChainStandard
	}{
		{interfaceERC1155, domain.StandardERC1155},
		{interfaceERC721, domain.StandardERC721},
	} {
		ok, err := c.supportsInterface(ctx, collection, probe.id)
		if err != nil {
			// Contracts without ERC-165 revert
			logger.DebugCtx(ctx, "supportsInterface call failed",
				zap.String("collection", collection.Hex()),
				zap.Error(err))
			return domain.StandardUnknown, nil
		}
		if ok {
			return probe.standard, nil
		}
	}
	return domain.StandardUnknown, nil
}

func (c *ethereumClient) supportsInterface(ctx context.Context, contract common.Address, id [4]byte) (bool, error) {
	data, err := c.abi.Pack("supportsInterface", id)
	if err != nil {
		return false, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to call contract: %w", err)
	}

	var supported bool
	if err := c.abi.UnpackIntoInterface(&supported, "supportsInterface", result); err != nil {
		return false, fmt.Errorf("failed to unpack result: %w", err)
	}
	return supported, nil
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
