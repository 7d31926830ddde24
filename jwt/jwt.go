package jwt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTokenRevoked = errors.New("token revoked or expired")

// Claims carried by a login token.
type Claims struct {
	UserID uint   `json:"userID"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Keys is the RS256 key pair used to sign and verify login tokens.
type Keys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// LoadKeys reads a PEM private key and a PEM public key.
func LoadKeys(privateKeyPath, publicKeyPath string) (*Keys, error) {
	keyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	keyBytes, err = os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return &Keys{Private: privateKey, Public: publicKey}, nil
}

// GenerateKeys makes a throwaway key pair. Tokens signed with it do not survive a restart.
func GenerateKeys(bits int) (*Keys, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return &Keys{Private: privateKey, Public: &privateKey.PublicKey}, nil
}

func (k *Keys) GenerateToken(userID uint, role string, expTime time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(k.Private)
}

// IssueLoginToken signs a token and records it; only recorded tokens verify.
func (k *Keys) IssueLoginToken(ctx context.Context, db *gorm.DB, userID uint, role string, ttl time.Duration) (string, error) {
	expTime := time.Now().Add(ttl)
	tokenString, err := k.GenerateToken(userID, role, expTime)
	if err != nil {
		return "", err
	}

	loginToken := models.LoginToken{
		Token:          tokenString,
		ExpirationTime: expTime,
		UserID:         userID,
		Role:           role,
	}
	if err := db.WithContext(ctx).Create(&loginToken).Error; err != nil {
		return "", err
	}
	return tokenString, nil
}

// VerifyToken checks the signature and expiry and that the token was not revoked.
func (k *Keys) VerifyToken(ctx context.Context, tokenString string, db *gorm.DB) (uint, string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return k.Public, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", jwt.ErrTokenSignatureInvalid
	}

	var loginToken models.LoginToken
	err = db.WithContext(ctx).
		Where("token = ? AND expiration_time > ?", tokenString, time.Now()).
		First(&loginToken).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrTokenRevoked
		}
		return 0, "", err
	}

	return claims.UserID, claims.Role, nil
}

// RevokeToken deletes the token row so the token stops verifying.
func RevokeToken(ctx context.Context, db *gorm.DB, tokenString string) error {
	return db.WithContext(ctx).
		Unscoped().
		Where("token = ?", tokenString).
		Delete(&models.LoginToken{}).
		Error
}
