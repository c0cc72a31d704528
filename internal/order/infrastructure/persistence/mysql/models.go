// Package mysql is the relational backend for the manual order list and
// the override table.
package mysql

import (
	"time"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
)

// ItemPO is the persistent form of a manual order item.
type ItemPO struct {
	Seq      uint      `gorm:"column:seq;primaryKey;autoIncrement"`
	ID       string    `gorm:"column:id;type:varchar(36);uniqueIndex;not null"`
	Name     string    `gorm:"column:name;type:varchar(255);not null"`
	Brand    string    `gorm:"column:brand;type:varchar(255)"`
	Quantity int       `gorm:"column:quantity;not null"`
	Barcode  string    `gorm:"column:barcode;type:varchar(64);index"`
	ImageURL string    `gorm:"column:image_url;type:varchar(512)"`
	AddedAt  time.Time `gorm:"column:added_at;not null"`
}

func (ItemPO) TableName() string { return "order_items" }

// OverridePO is the persistent form of a suggestion override.
type OverridePO struct {
	ProductID      string `gorm:"column:product_id;type:varchar(36);primaryKey"`
	CustomQuantity *int   `gorm:"column:custom_quantity"`
	Hidden         bool   `gorm:"column:hidden;not null"`
}

func (OverridePO) TableName() string { return "order_overrides" }

func toItemPO(i *domain.Item) ItemPO {
	return ItemPO{
		ID:       i.ID,
		Name:     i.Name,
		Brand:    i.Brand,
		Quantity: i.Quantity,
		Barcode:  i.Barcode,
		ImageURL: i.ImageURL,
		AddedAt:  i.AddedAt,
	}
}

func toItem(po *ItemPO) domain.Item {
	return domain.Item{
		ID:       po.ID,
		Name:     po.Name,
		Brand:    po.Brand,
		Quantity: po.Quantity,
		Barcode:  po.Barcode,
		ImageURL: po.ImageURL,
		AddedAt:  po.AddedAt,
	}
}
