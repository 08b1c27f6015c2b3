package entity

import (
	"encoding/json"
	"time"
)

// Tipos de registro que pueden ir a la papelera.
const (
	RecycledInvoice  = "invoice"
	RecycledCustomer = "customer"
	RecycledItem     = "jewellery_item"
)

// RecycleRetention tiempo que un registro eliminado puede restaurarse.
const RecycleRetention = 30 * 24 * time.Hour

// RecycledEntry lápida de un registro eliminado; Payload guarda el registro completo en JSON.
type RecycledEntry struct {
	ID        string
	ShopID    string
	ItemType  string
	ItemID    string
	ItemName  string
	Payload   json.RawMessage
	DeletedAt time.Time
	ExpiresAt time.Time
}

// Expired indica si ya no puede restaurarse.
func (r *RecycledEntry) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// NewRecycledEntry arma la lápida serializando el registro completo.
func NewRecycledEntry(id, shopID, itemType, itemID, name string, record any, now time.Time) (*RecycledEntry, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return &RecycledEntry{
		ID:        id,
		ShopID:    shopID,
		ItemType:  itemType,
		ItemID:    itemID,
		ItemName:  name,
		Payload:   payload,
		DeletedAt: now,
		ExpiresAt: now.Add(RecycleRetention),
	}, nil
}
