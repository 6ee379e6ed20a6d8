package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/pitchbridge/internal/backend"
)

const minPasswordLength = 6

var (
	errInvalidCredentials = &backend.Error{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}
	errUserExists         = &backend.Error{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	errSessionNotFound    = &backend.Error{Status: http.StatusUnauthorized, Code: "session_not_found", Message: "Session from session_id claim in JWT does not exist"}
	errBadJWT             = &backend.Error{Status: http.StatusUnauthorized, Code: "bad_jwt", Message: "invalid JWT: unable to parse or verify signature"}
	errRefreshNotFound    = &backend.Error{Status: http.StatusBadRequest, Code: "refresh_token_not_found", Message: "Invalid Refresh Token: Refresh Token Not Found"}
)

type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) SignUp(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &backend.Error{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Unable to validate email address: invalid format"}
	}
	if len(password) < minPasswordLength {
		return nil, &backend.Error{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: fmt.Sprintf("Password should be at least %d characters.", minPasswordLength)}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var result *backend.AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return dbError(err)
		}
		if existing > 0 {
			return errUserExists
		}
		acct := &Account{Email: email, PasswordHash: string(hash)}
		if err := tx.Create(acct).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errUserExists
			}
			return dbError(err)
		}
		sess, err := s.issueSession(tx, acct)
		if err != nil {
			return err
		}
		result = &backend.AuthResult{Account: sess.Account, Session: sess}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Account created", "account_id", result.Account.ID)
	return result, nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	email = normalizeEmail(email)
	var acct Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, dbError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	var sess *backend.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sess, err = s.issueSession(tx, &acct)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &backend.AuthResult{Account: sess.Account, Session: sess}, nil
}

// SignOut removes the session the token belongs to. Unknown tokens are not an error.
func (s *Store) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("access_token = ?", accessToken).Delete(&Token{}).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, accessToken string) (*backend.Session, error) {
	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	var tok Token
	if err := s.db.WithContext(ctx).Where("access_token = ?", accessToken).First(&tok).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSessionNotFound
		}
		return nil, dbError(err)
	}
	if tok.AccountID.String() != claims.Subject {
		return nil, errBadJWT
	}
	var acct Account
	if err := s.db.WithContext(ctx).Where("id = ?", tok.AccountID).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSessionNotFound
		}
		return nil, dbError(err)
	}
	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return &backend.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    exp,
		Account:      backend.Account{ID: acct.ID.String(), Email: acct.Email},
	}, nil
}

// Refresh rotates a refresh token into a new session. The old pair stops working.
func (s *Store) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, errRefreshNotFound
	}
	var sess *backend.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tok Token
		if err := tx.Where("refresh_token = ?", refreshToken).First(&tok).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRefreshNotFound
			}
			return dbError(err)
		}
		if tok.ExpiresAt.Before(time.Now()) {
			return errRefreshNotFound
		}
		if err := tx.Delete(&tok).Error; err != nil {
			return dbError(err)
		}
		var acct Account
		if err := tx.Where("id = ?", tok.AccountID).First(&acct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRefreshNotFound
			}
			return dbError(err)
		}
		var err error
		sess, err = s.issueSession(tx, &acct)
		return err
	})
	if err != nil {
		// Expired pairs are dropped outside the failed transaction.
		if errors.Is(err, errRefreshNotFound) {
			s.db.WithContext(ctx).Where("refresh_token = ? AND expires_at < ?", refreshToken, time.Now()).Delete(&Token{})
		}
		return nil, err
	}
	return sess, nil
}

func (s *Store) issueSession(tx *gorm.DB, acct *Account) (*backend.Session, error) {
	now := time.Now()
	accessExp := now.Add(s.cfg.AccessTTL)
	claims := JWTClaims{
		Email: acct.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID.String(),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	tok := &Token{
		AccountID:    acct.ID,
		AccessToken:  signed,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(s.cfg.RefreshTTL),
	}
	if err := tx.Create(tok).Error; err != nil {
		return nil, dbError(err)
	}
	return &backend.Session{
		AccessToken:  signed,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    accessExp,
		Account:      backend.Account{ID: acct.ID.String(), Email: acct.Email},
	}, nil
}

func (s *Store) parseAccessToken(accessToken string) (*JWTClaims, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errBadJWT
	}
	parsed, err := jwt.ParseWithClaims(accessToken, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &backend.Error{Status: http.StatusUnauthorized, Code: "session_expired", Message: "invalid JWT: token is expired"}
		}
		return nil, errBadJWT
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, errBadJWT
	}
	return claims, nil
}
