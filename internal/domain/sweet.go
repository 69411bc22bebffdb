package domain

import "time"

// Sweet represents an inventory item.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     int       `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSweetRequest is the body of POST /api/sweets. Price and Quantity are
// pointers so that an absent field can be told apart from an explicit zero.
type CreateSweetRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    *int   `json:"price"`
	Quantity *int   `json:"quantity"`
}

// UpdateSweetRequest is the body of PUT /api/sweets/{id}. All fields are
// optional; only the supplied ones are written.
type UpdateSweetRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Price    *int    `json:"price"`
	Quantity *int    `json:"quantity"`
}

// HasFields reports whether at least one updatable field was supplied.
func (r *UpdateSweetRequest) HasFields() bool {
	return r.Name != nil || r.Category != nil || r.Price != nil || r.Quantity != nil
}

// QuantityRequest is the body of the purchase and restock endpoints.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SweetSearchQuery holds the parsed query parameters of GET /api/sweets/search.
type SweetSearchQuery struct {
	Name     string
	Category string
	MinPrice *int
	MaxPrice *int
}
