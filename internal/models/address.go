package models

import "time"

// AddressReservation is the exclusive claim on a handle, stored in the
// "addresses" collection keyed by the normalized handle itself. A handle is
// reserved if and only if some profile currently holds it as its address.
type AddressReservation struct {
	Handle    string    `json:"handle" bson:"_id"`
	UID       string    `json:"uid" bson:"uid"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
