package models

type UserDoc struct {
	UserID       int    `json:"userId" bson:"userId"`
	Email        string `json:"email" bson:"email"`
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	Role         string `json:"role" bson:"role"` // user | admin
	CreatedAt    string `json:"createdAt" bson:"createdAt"`
}
