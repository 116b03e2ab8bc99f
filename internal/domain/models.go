package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Image       string          `db:"image" json:"image,omitempty"` // relative to MEDIA_DIR
	CreatedAt   string          `db:"created_at" json:"-"`
	UpdatedAt   string          `db:"updated_at" json:"-"`
}

func (p Product) HasImage() bool { return p.Image != "" }

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
