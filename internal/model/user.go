package model

import "time"

// User is an account known to the ledger. Credentials live with the identity provider.
type User struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}
