package aptos

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

const (
	TransactionTypeUser          = "user_transaction"
	TransactionTypeBlockMetadata = "block_metadata_transaction"
	TransactionTypeGenesis       = "genesis_transaction"

	PayloadTypeEntryFunction = "entry_function_payload"
)

// LedgerInfo represents the ledger info returned by the fullnode root endpoint
type LedgerInfo struct {
	ChainID             int    `json:"chain_id"`
	LedgerVersion       uint64 `json:"ledger_version,string"`
	OldestLedgerVersion uint64 `json:"oldest_ledger_version,string"`
	BlockHeight         uint64 `json:"block_height,string"`
	LedgerTimestamp     uint64 `json:"ledger_timestamp,string"`
}

// Block represents the block summary returned by /blocks/by_version
type Block struct {
	BlockHeight    uint64 `json:"block_height,string"`
	BlockHash      string `json:"block_hash"`
	BlockTimestamp uint64 `json:"block_timestamp,string"`
	FirstVersion   uint64 `json:"first_version,string"`
	LastVersion    uint64 `json:"last_version,string"`
}

// RestTransaction is the JSON shape of a committed transaction in the fullnode REST API.
// Pending and state checkpoint transactions omit most fields.
type RestTransaction struct {
	Type      string       `json:"type"`
	Version   string       `json:"version"`
	Hash      string       `json:"hash"`
	Timestamp string       `json:"timestamp"` // microseconds
	Success   *bool        `json:"success,omitempty"`
	VMStatus  string       `json:"vm_status"`
	GasUsed   string       `json:"gas_used"`
	Sender    string       `json:"sender,omitempty"`
	Payload   *RestPayload `json:"payload,omitempty"`
	Events    []RestEvent  `json:"events"`
	Changes   []RestChange `json:"changes"`
}

// RestPayload is the payload of a user transaction. Function is only set for entry function calls.
type RestPayload struct {
	Type     string `json:"type"`
	Function string `json:"function,omitempty"`
}

// RestEvent is an event as rendered by the REST API
type RestEvent struct {
	GUID struct {
		CreationNumber string `json:"creation_number"`
		AccountAddress string `json:"account_address"`
	} `json:"guid"`
	SequenceNumber string          `json:"sequence_number"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
}

// RestChange is a write set change as rendered by the REST API
type RestChange struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	// Resource is the resource type of a delete_resource change
	Resource string `json:"resource,omitempty"`
	Data     *struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	} `json:"data,omitempty"`
}

// Client defines an interface for the Aptos fullnode REST API to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/aptos_client.go -package=mocks -mock_names=Client=MockAptosClient
type Client interface {
	// GetTransactions returns up to limit committed transactions starting at version start
	GetTransactions(ctx context.Context, start uint64, limit int) ([]RestTransaction, error)
	// GetLedgerInfo returns the current ledger info
	GetLedgerInfo(ctx context.Context) (*LedgerInfo, error)
	// GetBlockByVersion returns the block that contains the version
	GetBlockByVersion(ctx context.Context, version uint64) (*Block, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient adapter.HTTPClient
	json       adapter.JSON
}

// NewClient creates a new Aptos REST client
func NewClient(baseURL, apiKey string, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) Client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		json:       jsonAdapter,
	}
}

func (c *client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

func (c *client) get(ctx context.Context, url string, result interface{}) error {
	body, err := c.httpClient.GetBytes(ctx, url, c.headers())
	if err != nil {
		return err
	}
	if err := c.json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetTransactions retrieves a page of transactions starting at version start
func (c *client) GetTransactions(ctx context.Context, start uint64, limit int) ([]RestTransaction, error) {
	url := fmt.Sprintf("%s/transactions?start=%d&limit=%d", c.baseURL, start, limit)

	var txs []RestTransaction
	if err := c.get(ctx, url, &txs); err != nil {
		return nil, fmt.Errorf("failed to get transactions from %d: %w", start, err)
	}

	return txs, nil
}

// GetLedgerInfo retrieves the ledger info from the fullnode root endpoint
func (c *client) GetLedgerInfo(ctx context.Context) (*LedgerInfo, error) {
	var info LedgerInfo
	if err := c.get(ctx, c.baseURL, &info); err != nil {
		return nil, fmt.Errorf("failed to get ledger info: %w", err)
	}

	return &info, nil
}

// GetBlockByVersion retrieves the block containing version, without its transactions
func (c *client) GetBlockByVersion(ctx context.Context, version uint64) (*Block, error) {
	url := fmt.Sprintf("%s/blocks/by_version/%d?with_transactions=false", c.baseURL, version)

	var block Block
	if err := c.get(ctx, url, &block); err != nil {
		return nil, fmt.Errorf("failed to get block by version %d: %w", version, err)
	}

	return &block, nil
}

// ToDomain converts a REST transaction into the domain envelope. Transactions without a success
// flag (state checkpoints, pending) carry no Info.
func (t *RestTransaction) ToDomain(blockHeight uint64) (*domain.Transaction, error) {
	version, err := strconv.ParseUint(t.Version, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", t.Version, err)
	}

	var ts time.Time
	if t.Timestamp != "" {
		micros, err := strconv.ParseInt(t.Timestamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q at version %d: %w", t.Timestamp, version, err)
		}
		ts = time.UnixMicro(micros).UTC()
	}

	txn := &domain.Transaction{
		Version:     version,
		Hash:        t.Hash,
		BlockHeight: blockHeight,
		Timestamp:   ts,
		Sender:      t.Sender,
	}
	if t.Payload != nil && t.Payload.Type == PayloadTypeEntryFunction {
		txn.EntryFunction = t.Payload.Function
	}

	if t.Success != nil {
		// gas_used is informational, a malformed value leaves it at zero
		gas, _ := strconv.ParseUint(t.GasUsed, 10, 64)
		txn.Info = &domain.TransactionInfo{
			Success:  *t.Success,
			VMStatus: t.VMStatus,
			GasUsed:  gas,
		}
	}

	txn.Events = make([]domain.Event, 0, len(t.Events))
	for i, ev := range t.Events {
		txn.Events = append(txn.Events, domain.Event{
			Index:          i,
			Type:           ev.Type,
			AccountAddress: ev.GUID.AccountAddress,
			Data:           []byte(ev.Data),
		})
	}

	txn.Changes = make([]domain.WriteSetChange, 0, len(t.Changes))
	for i, ch := range t.Changes {
		change := domain.WriteSetChange{
			Index:   i,
			Type:    ch.Type,
			Address: ch.Address,
		}
		switch {
		case ch.Type == domain.WriteSetChangeWrite && ch.Data != nil:
			change.Resource = &domain.MoveResource{Type: ch.Data.Type, Data: []byte(ch.Data.Data)}
		case ch.Type == domain.WriteSetChangeDelete && ch.Resource != "":
			change.Resource = &domain.MoveResource{Type: ch.Resource}
		}
		txn.Changes = append(txn.Changes, change)
	}

	return txn, nil
}
