package models

import (
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/shopspring/decimal"
)

type Product struct {
	Base           `bson:",inline"`
	Name           string              `gorm:"column:name" bson:"name" json:"name"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2)" bson:"price" json:"price"`
	Stock          int                 `gorm:"column:stock" bson:"stock" json:"stock"`
	DeliveryCharge decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2)" bson:"delivery_charge" json:"deliveryCharge"`
	DigitalProduct bool                `gorm:"column:digital_product" bson:"digital_product" json:"digitalProduct"`
	Seller         string              `gorm:"column:seller" bson:"seller" json:"seller"`
	Status         enums.ProductStatus `gorm:"column:status" bson:"status" json:"status"`
}

func (Product) TableName() string { return "products" }
