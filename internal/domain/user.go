package domain

import "time"

type User struct {
	ID          string    `db:"id"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}
