package entity

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           string `bson:"id,omitempty"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password"`
	Role         Role   `bson:"role"`
	IsVerified   bool   `bson:"isVerified"`
	ConfirmToken string `bson:"confirmToken,omitempty"`
	AuditInfo    `bson:",inline"`
}
