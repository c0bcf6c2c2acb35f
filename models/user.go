package models

import "time"

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	PinHash   string    `json:"-" db:"pin_hash"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
