package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Role scopes what a token may call.
type Role string

const (
	// RoleAdmin is an HR user managing sessions, overtime and calendars.
	RoleAdmin Role = "admin"
	// RoleDevice is a time clock or its sync agent; it may only submit punches.
	RoleDevice Role = "device"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(subject, companyID string, role Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subject, companyID string, role Role) (token string, expiresAt int64, err error) {
	if companyID == "" {
		return "", 0, fmt.Errorf("company id is required")
	}
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid access token ttl: %w", err)
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":        subject,
		"company_id": companyID,
		"role":       string(role),
		"type":       tokenTypeAccess,
		"exp":        expiresAt,
	})
	return tokenString, expiresAt, err
}
