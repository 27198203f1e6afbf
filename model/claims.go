package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&BoardStage{},
		&Project{},
		&Task{},
		&Comment{},
		&Attachment{},
		&NotificationJob{},
	}
}
