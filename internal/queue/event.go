// Package queue defines message payloads exchanged over the message broker.
package queue

// ProductCreatedEvent is published when a product is successfully added to
// the catalog. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ProductCreatedEvent struct {
    ProductID    uint64  `json:"product_id"`
    Name         string  `json:"name"`
    Type         string  `json:"type"`
    Price        float64 `json:"price"`
    Stock        uint32  `json:"stock"`
    CategoryID   uint64  `json:"category_id"`
    CategoryName string  `json:"category_name"`
    CreatedAt    string  `json:"created_at"`
}
