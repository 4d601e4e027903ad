package models

import "time"

// User is the read-only view of a caller record. Admin status is provisioned
// outside the API.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
