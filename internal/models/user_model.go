package models

import "time"

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Roles        []string  `bson:"roles" json:"roles"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
