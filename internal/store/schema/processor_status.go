package schema

import "time"

// ProcessorStatus stores the last successfully persisted version per processing stream
type ProcessorStatus struct {
	Processor                string     `gorm:"column:processor;primaryKey;type:text"`
	LastSuccessVersion       int64      `gorm:"column:last_success_version;not null"`
	LastTransactionTimestamp *time.Time `gorm:"column:last_transaction_timestamp;type:timestamptz"`
	UpdatedAt                time.Time  `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (ProcessorStatus) TableName() string {
	return "processor_status"
}
