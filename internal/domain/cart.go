package domain

import "github.com/shopspring/decimal"

// CartLine is one pending selection. (UserID, ProductID) is unique.
type CartLine struct {
	ID        int64  `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"-"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// CartItem is a line joined with the live product row.
type CartItem struct {
	CartLine
	Product Product `db:"product" json:"product"`
}

func (it CartItem) LineTotal() decimal.Decimal {
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type CartView struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (v CartView) Empty() bool { return len(v.Items) == 0 }

// Total sums quantity*price over items.
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type ReceiptLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Receipt is handed to the caller once and never stored.
type Receipt struct {
	Lines []ReceiptLine   `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func NewReceipt(items []CartItem) Receipt {
	r := Receipt{Lines: make([]ReceiptLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		lt := it.LineTotal()
		r.Lines = append(r.Lines, ReceiptLine{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
			LineTotal: lt,
		})
		r.Total = r.Total.Add(lt)
	}
	return r
}
