package domain

import "time"

// Extension represents a browser extension listed in the directory.
// Extensions are a small catalog and are not sharded; they live on shard 0.
type Extension struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	Downloads   int64     `json:"downloads"`
	Icon        *string   `json:"icon,omitempty"`
	StoreURL    *string   `json:"store_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
