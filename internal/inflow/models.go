package inflow

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decimal is a decimal amount as sent by the API. Inflow serializes decimals
// as JSON strings; plain numbers are accepted too. The text is kept verbatim
// so no precision is lost on the way to the database.
type Decimal string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*d = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		*d = Decimal(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		*d = Decimal(n.String())
	}
	return nil
}

// payload keeps the JSON object a record was decoded from.
type payload struct {
	Raw json.RawMessage `json:"-"`
}

func (p *payload) setRaw(raw json.RawMessage) { p.Raw = raw }

// Category is a product category. Categories nest through ParentCategoryID.
type Category struct {
	payload
	CategoryID       string `json:"categoryId"`
	Name             string `json:"name"`
	ParentCategoryID string `json:"parentCategoryId"`
	IsDefault        bool   `json:"isDefault"`
	Timestamp        string `json:"timestamp"`
}

// Location is a warehouse or store that holds stock.
type Location struct {
	payload
	LocationID   string `json:"locationId"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	IsActive     bool   `json:"isActive"`
	IsDefault    bool   `json:"isDefault"`
	Timestamp    string `json:"timestamp"`
}

// PricingScheme is a named price list in one currency.
type PricingScheme struct {
	payload
	PricingSchemeID string `json:"pricingSchemeId"`
	Name            string `json:"name"`
	CurrencyID      string `json:"currencyId"`
	IsActive        bool   `json:"isActive"`
	IsDefault       bool   `json:"isDefault"`
	IsTaxInclusive  bool   `json:"isTaxInclusive"`
	Timestamp       string `json:"timestamp"`
}

// PaymentTerms describes when an invoice falls due.
type PaymentTerms struct {
	payload
	PaymentTermsID string `json:"paymentTermsId"`
	Name           string `json:"name"`
	DaysDue        *int   `json:"daysDue"`
	IsActive       bool   `json:"isActive"`
	Timestamp      string `json:"timestamp"`
}

// TaxingScheme is a pair of tax rates applied to orders.
type TaxingScheme struct {
	payload
	TaxingSchemeID string  `json:"taxingSchemeId"`
	Name           string  `json:"name"`
	Tax1Name       string  `json:"tax1Name"`
	Tax1Rate       Decimal `json:"tax1Rate"`
	Tax2Name       string  `json:"tax2Name"`
	Tax2Rate       Decimal `json:"tax2Rate"`
	IsActive       bool    `json:"isActive"`
	IsDefault      bool    `json:"isDefault"`
	Timestamp      string  `json:"timestamp"`
}

// Vendor is a supplier purchase orders are placed with.
type Vendor struct {
	payload
	VendorID       string `json:"vendorId"`
	Name           string `json:"name"`
	ContactName    string `json:"contactName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CurrencyID     string `json:"currencyId"`
	PaymentTermsID string `json:"paymentTermsId"`
	IsActive       bool   `json:"isActive"`
	Timestamp      string `json:"timestamp"`
}

// Customer is a buyer sales orders are placed for.
type Customer struct {
	payload
	CustomerID        string `json:"customerId"`
	Name              string `json:"name"`
	ContactName       string `json:"contactName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	PricingSchemeID   string `json:"pricingSchemeId"`
	PaymentTermsID    string `json:"paymentTermsId"`
	TaxingSchemeID    string `json:"taxingSchemeId"`
	DefaultLocationID string `json:"defaultLocationId"`
	IsActive          bool   `json:"isActive"`
	Timestamp         string `json:"timestamp"`
}

// Product is a stocked, service or non-stocked item, with its inventory lines
// when requested.
type Product struct {
	payload
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Barcode          string          `json:"barcode"`
	Description      string          `json:"description"`
	ItemType         string          `json:"itemType"`
	CategoryID       string          `json:"categoryId"`
	IsActive         bool            `json:"isActive"`
	IsManufacturable bool            `json:"isManufacturable"`
	Timestamp        string          `json:"timestamp"`
	InventoryLines   []InventoryLine `json:"inventoryLines"`
}

// InventoryLine is the stock of one product at one location/sublocation.
type InventoryLine struct {
	InventoryLineID string  `json:"inventoryLineId"`
	ProductID       string  `json:"productId"`
	LocationID      string  `json:"locationId"`
	Sublocation     string  `json:"sublocation"`
	Serial          string  `json:"serial"`
	QuantityOnHand  Decimal `json:"quantityOnHand"`
}

// Quantity is an order line quantity in the product's standard unit and the
// unit of measure it was entered in.
type Quantity struct {
	StandardQuantity Decimal `json:"standardQuantity"`
	UomQuantity      Decimal `json:"uomQuantity"`
	Uom              string  `json:"uom"`
}

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	payload
	PurchaseOrderID string              `json:"purchaseOrderId"`
	OrderNumber     string              `json:"orderNumber"`
	VendorID        string              `json:"vendorId"`
	LocationID      string              `json:"locationId"`
	OrderDate       string              `json:"orderDate"`
	Status          string              `json:"inventoryStatus"`
	Total           Decimal             `json:"total"`
	Timestamp       string              `json:"timestamp"`
	Lines           []PurchaseOrderLine `json:"lines"`
}

// PurchaseOrderLine is one product on a purchase order.
type PurchaseOrderLine struct {
	PurchaseOrderLineID string   `json:"purchaseOrderLineId"`
	ProductID           string   `json:"productId"`
	Description         string   `json:"description"`
	Quantity            Quantity `json:"quantity"`
	UnitPrice           Decimal  `json:"unitPrice"`
	SubTotal            Decimal  `json:"subTotal"`
}

// SalesOrder is an order placed by a customer.
type SalesOrder struct {
	payload
	SalesOrderID    string           `json:"salesOrderId"`
	OrderNumber     string           `json:"orderNumber"`
	CustomerID      string           `json:"customerId"`
	LocationID      string           `json:"locationId"`
	OrderDate       string           `json:"orderDate"`
	InventoryStatus string           `json:"inventoryStatus"`
	PaymentStatus   string           `json:"paymentStatus"`
	Total           Decimal          `json:"total"`
	Timestamp       string           `json:"timestamp"`
	Lines           []SalesOrderLine `json:"lines"`
}

// SalesOrderLine is one product on a sales order.
type SalesOrderLine struct {
	SalesOrderLineID string   `json:"salesOrderLineId"`
	ProductID        string   `json:"productId"`
	Description      string   `json:"description"`
	Quantity         Quantity `json:"quantity"`
	UnitPrice        Decimal  `json:"unitPrice"`
	SubTotal         Decimal  `json:"subTotal"`
}
