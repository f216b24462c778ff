package domain

import "time"

type Meeting struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	HostID    string    `db:"host_id"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}
