// Package mysql is the relational persistence backend, used instead of
// the key-value store when storage.driver is mysql.
package mysql

import (
	"time"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
)

// ProductPO is the persistent form of a product row.
type ProductPO struct {
	ID          string     `gorm:"column:id;type:varchar(36);primaryKey"`
	Barcode     string     `gorm:"column:barcode;type:varchar(64);uniqueIndex;not null"`
	Name        string     `gorm:"column:name;type:varchar(255);not null"`
	Brand       string     `gorm:"column:brand;type:varchar(255)"`
	Quantity    int        `gorm:"column:quantity;not null"`
	MinStock    int        `gorm:"column:min_stock;not null"`
	ExpiryDate  *time.Time `gorm:"column:expiry_date"`
	ImageURL    string     `gorm:"column:image_url;type:varchar(512)"`
	Category    string     `gorm:"column:category;type:varchar(255)"`
	Unit        string     `gorm:"column:unit;type:varchar(32)"`
	AddedAt     time.Time  `gorm:"column:added_at;not null"`
	LastUpdated time.Time  `gorm:"column:last_updated;not null"`
}

func (ProductPO) TableName() string { return "products" }

// MovementPO is the persistent form of a movement row.
type MovementPO struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ProductID string    `gorm:"column:product_id;type:varchar(36);index;not null"`
	Type      string    `gorm:"column:type;type:varchar(8);not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Date      time.Time `gorm:"column:date;not null"`
	Reason    string    `gorm:"column:reason;type:varchar(255)"`
}

func (MovementPO) TableName() string { return "stock_movements" }

func toProductPO(p *domain.Product) ProductPO {
	return ProductPO{
		ID:          p.ID,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Brand:       p.Brand,
		Quantity:    p.Quantity,
		MinStock:    p.MinStock,
		ExpiryDate:  p.ExpiryDate,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Unit:        p.Unit,
		AddedAt:     p.AddedAt,
		LastUpdated: p.LastUpdated,
	}
}

func toProduct(po *ProductPO) domain.Product {
	return domain.Product{
		ID:          po.ID,
		Barcode:     po.Barcode,
		Name:        po.Name,
		Brand:       po.Brand,
		Quantity:    po.Quantity,
		MinStock:    po.MinStock,
		ExpiryDate:  po.ExpiryDate,
		ImageURL:    po.ImageURL,
		Category:    po.Category,
		Unit:        po.Unit,
		AddedAt:     po.AddedAt,
		LastUpdated: po.LastUpdated,
	}
}

func toMovementPO(m *domain.Movement) MovementPO {
	return MovementPO{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Date:      m.Date,
		Reason:    m.Reason,
	}
}

func toMovement(po *MovementPO) domain.Movement {
	return domain.Movement{
		ID:        po.ID,
		ProductID: po.ProductID,
		Type:      domain.MovementType(po.Type),
		Quantity:  po.Quantity,
		Date:      po.Date,
		Reason:    po.Reason,
	}
}
