package storage

import (
	"errors"
	"time"
)

// ErrNotFound は対象のエンティティが存在しないことを示す
var ErrNotFound = errors.New("storage: not found")

// ErrUnauthorized はAPIキーが一致しないことを示す
var ErrUnauthorized = errors.New("storage: unauthorized")

// OfferStatus はオファー一覧のフィルタ条件
type OfferStatus string

const (
	// StatusActive はアーカイブされていないオファーのみ
	StatusActive OfferStatus = "active"
	// StatusArchived はアーカイブ済みのオファーのみ
	StatusArchived OfferStatus = "archived"
	// StatusAll はすべてのオファー
	StatusAll OfferStatus = "all"
)

// Valid はフィルタ条件が既知の値であるかを返す
func (s OfferStatus) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusAll:
		return true
	}
	return false
}

// Restaurant はレストラン（出品者）を表す
type Restaurant struct {
	ID        string    `json:"restaurant_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials はレストラン登録時に発行される認証情報
type Credentials struct {
	RestaurantID string `json:"restaurant_id"`
	APIKey       string `json:"api_key"`
}

// Offer は販売オファーを表す
type Offer struct {
	ID                 string     `json:"id"`
	RestaurantID       string     `json:"-"`
	Title              string     `json:"title"`
	PriceCents         int        `json:"price_cents"`
	OriginalPriceCents *int       `json:"original_price_cents"`
	QtyTotal           int        `json:"qty_total"`
	QtyLeft            int        `json:"qty_left"`
	ExpiresAt          time.Time  `json:"expires_at"`
	ArchivedAt         *time.Time `json:"archived_at,omitempty"`
	CreatedAt          time.Time  `json:"-"`
}

// Archived はオファーがアーカイブ済みかを返す
func (o *Offer) Archived() bool {
	return o.ArchivedAt != nil
}
