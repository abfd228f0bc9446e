// Package model holds the gorm persistence models. Mapping to and from the
// domain entities stays inside the repository implementations.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the persisted ledger entry. All monetary columns are
// fixed-point integers: satoshis, whole rupees, or cents-scaled rates.
type Transaction struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`
	// Seq is assigned by the database sequence and breaks ordering ties
	// between rows committed with the same created_at timestamp.
	Seq    int64     `gorm:"type:bigserial;uniqueIndex;->"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind     string    `gorm:"type:varchar(16);not null"`
	Currency string    `gorm:"type:varchar(8);not null;default:'NONE'"`

	BtcAmount  *int64 `gorm:"type:bigint"`
	FiatAmount int64  `gorm:"type:bigint;not null;default:0"`

	BtcUsdPrice *int64 `gorm:"type:bigint"`
	BtcInrPrice *int64 `gorm:"type:bigint"`
	UsdInrRate  *int64 `gorm:"type:bigint"`

	FiatBalance int64 `gorm:"type:bigint;not null"`
	BtcBalance  int64 `gorm:"type:bigint;not null"`

	Reason    string    `gorm:"type:varchar(256)"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// User anchors the ledger's foreign keys.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(128);not null"`
	Email     string    `gorm:"type:varchar(256);uniqueIndex;not null"`
	Pin       string    `gorm:"type:varchar(128)"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Rates is the singleton platform USD→INR rate row.
type Rates struct {
	ID        int   `gorm:"primary_key"`
	BuyRate   int64 `gorm:"type:bigint;not null"`
	SellRate  int64 `gorm:"type:bigint;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for the Rates model.
func (Rates) TableName() string {
	return "rates"
}
