package model

import "github.com/google/uuid"

type RegisterParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

type RegisterResult struct {
	UserID  uuid.UUID
	Email   string
	Message string
}

type LoginParams struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// AuthResult is an issued token pair together with the account it belongs to.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
	User         PublicUser
}
