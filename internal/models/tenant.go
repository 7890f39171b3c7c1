package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is the provisioning record written by the control plane. The
// dataplane only reads these rows when rebuilding the tenant directory.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	KeyHash   string    `gorm:"uniqueIndex;not null" json:"-"`
	Network   string    `gorm:"not null" json:"network"`
	Pruned    bool      `gorm:"default:false" json:"pruned"`
	Tier      string    `json:"tier"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Tenant) TableName() string {
	return "tenants"
}

// Consumer is the in-memory identity a request resolves to. Key holds the
// SHA-256 hex of the minted credential, never the credential itself.
// The zero value is the unauthenticated sentinel.
type Consumer struct {
	Key     string
	Name    string
	Network string
	Pruned  bool
	Tier    string
}

// Consumer builds the directory entry for a tenant row.
func (t *Tenant) Consumer() Consumer {
	return Consumer{
		Key:     t.KeyHash,
		Name:    t.Name,
		Network: t.Network,
		Pruned:  t.Pruned,
		Tier:    t.Tier,
	}
}
