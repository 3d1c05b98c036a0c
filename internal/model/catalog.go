package model

import "time"

// Category is a row in the `categories` table.  Categories are
// static reference data: each product belongs to exactly one.
type Category struct {
    ID          uint64 // categories.id
    Name        string // categories.name (unique)
    Description string // categories.description
}

// Product is a row in the `products` table.  Type is a free-form
// label defaulted to "STANDARD" when the client omits it; nothing
// ties it to the category.
type Product struct {
    ID         uint64    // products.id
    Name       string    // products.name
    Type       string    // products.type
    Price      float64   // products.price
    Stock      uint32    // products.stock
    CategoryID uint64    // products.category_id
    CreatedAt  time.Time // products.created_at
}
