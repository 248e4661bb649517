package models

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string    `bson:"id" json:"id"`
	AuthUID      string    `bson:"auth_uid" json:"-"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	InitialLevel string    `bson:"initial_level" json:"initial_level"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
