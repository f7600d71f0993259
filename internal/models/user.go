package models

import "time"

// User is stored in the users collection, or the users table when the
// relational store is selected.
type User struct {
	ID           string    `bson:"_id" gorm:"column:id;type:uuid;primaryKey" json:"id"` // uuid
	Name         string    `bson:"name" gorm:"column:name;type:text" json:"name"`
	Email        string    `bson:"email" gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash string    `bson:"password_hash" gorm:"column:password_hash;type:text" json:"-"`
	CreatedAt    time.Time `bson:"created_at" gorm:"column:created_at;type:timestamptz" json:"createdAt"`
}

func (User) TableName() string { return "users" }
