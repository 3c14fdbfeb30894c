package domain

import "time"

// Transaction is a committed chain transaction as delivered by the transaction source
type Transaction struct {
	Version     uint64    `json:"version"`
	Hash        string    `json:"hash"`
	BlockHeight uint64    `json:"block_height"`
	Timestamp   time.Time `json:"timestamp"`
	Sender      string    `json:"sender,omitempty"`
	// EntryFunction is the called entry function of a user transaction, e.g. 0xabc::marketplace::buy
	EntryFunction string           `json:"entry_function,omitempty"`
	Info          *TransactionInfo `json:"info,omitempty"` // nil when the transaction carries no execution metadata
	Events        []Event          `json:"events"`
	Changes       []WriteSetChange `json:"changes"`
}

// TransactionInfo holds the execution metadata of a transaction
type TransactionInfo struct {
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status"`
	GasUsed  uint64 `json:"gas_used"`
}

// Event is a single event emitted by a transaction
type Event struct {
	Index          int    `json:"index"`
	Type           string `json:"type"`            // fully qualified move type, e.g. 0x1::object::TransferEvent
	AccountAddress string `json:"account_address"` // event handle owner (v1 events), empty for module events
	Data           []byte `json:"data"`            // raw JSON envelope
}

// WriteSetChange is a single state change written by a transaction
type WriteSetChange struct {
	Index    int           `json:"index"`
	Type     string        `json:"type"` // write_resource, delete_resource, write_table_item, ...
	Address  string        `json:"address"`
	Resource *MoveResource `json:"resource,omitempty"`
}

// MoveResource is the typed payload of a resource write
type MoveResource struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// TxIndex packs the transaction version and event index into a monotonic index
func TxIndex(version uint64, eventIndex int) int64 {
	return int64(version)*TxIndexMultiplier + int64(eventIndex)
}
