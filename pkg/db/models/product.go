package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing owned by exactly one category and attributed
// to the user who created it. The image column holds a storage key, not a URL.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CategoryID    uuid.UUID       `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	CreatedBy     uuid.UUID       `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Description   *string         `gorm:"column:description" json:"description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	SKU           *string         `gorm:"column:sku;uniqueIndex" json:"sku"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	Image         *string         `gorm:"column:image" json:"image"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Author        *User           `gorm:"foreignKey:CreatedBy" json:"created_by_user,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InStock reports whether the product has sellable quantity.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
