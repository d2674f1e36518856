package secret

import "time"

// DefaultPIN is what a school secret becomes after an operator reset.
const DefaultPIN = "0000"

// Secret is the hashed 4 digits PIN shared by the staff of a school.
type Secret struct {
	SchoolCode   string    `db:"school_code"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
