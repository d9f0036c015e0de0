// Package directory tracks the users and group chats this bot has been
// exposed to, backed by Postgres. It serves /stats and broadcast
// recipient resolution.
package directory

import "time"

// User is a Telegram account that has interacted with the bot.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Group is a group or supergroup chat the bot is (or was) a member of.
// Active is cleared when the bot leaves or is kicked.
type Group struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
