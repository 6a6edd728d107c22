package models

import (
	"database/sql/driver"
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is the optional option selection of a cart entry.
type Variant struct {
	Color  string `json:"color,omitempty" bson:"color,omitempty"`
	Size   string `json:"size,omitempty" bson:"size,omitempty"`
	Weight string `json:"weight,omitempty" bson:"weight,omitempty"`
}

func (v *Variant) IsEmpty() bool {
	return v == nil || (strings.TrimSpace(v.Color) == "" && strings.TrimSpace(v.Size) == "" && strings.TrimSpace(v.Weight) == "")
}

// CartEntry is the persisted form of one cart line. Price is a snapshot taken when the item was added.
type CartEntry struct {
	ID              string          `json:"id" bson:"id"`
	Quantity        int             `json:"quantity" bson:"quantity"`
	Price           decimal.Decimal `json:"price" bson:"price"`
	SelectedVariant *Variant        `json:"selectedVariant,omitempty" bson:"selectedVariant,omitempty"`
}

// Cart maps cart keys to persisted entries.
type Cart map[string]CartEntry

func (Cart) GormDataType() string { return "jsonb" }

func (c Cart) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return jsonValue(c)
}

func (c *Cart) Scan(src any) error {
	out := Cart{}
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*c = out
	return nil
}

// Clone returns a shallow copy safe for independent mutation of keys.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
