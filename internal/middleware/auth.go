package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const userContextKey = "currentUser"

type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token, resolves (or provisions) the matching user
// record, and stashes it on the gin context for handlers downstream.
type Auth struct {
	secretKey []byte
	Users     *repository.UserRepository
}

func NewAuth(jwtSecret string, users *repository.UserRepository) *Auth {
	return &Auth{secretKey: []byte(jwtSecret), Users: users}
}

func (a *Auth) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UID == "" {
		return nil, fmt.Errorf("token missing uid claim")
	}
	return claims, nil
}

func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := a.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := a.resolveUser(c.Request.Context(), claims)
		if err != nil {
			log.Printf("Failed to resolve user for uid %s: %v", claims.UID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// resolveUser looks the account up by identity-provider UID first, then falls
// back to email for accounts that predate UID-based lookup and backfills the
// UID on them. Unknown identities get a fresh student account.
func (a *Auth) resolveUser(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := a.Users.FindByAuthUID(ctx, claims.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if claims.Email != "" {
		user, err = a.Users.FindByEmail(ctx, claims.Email)
		if err == nil {
			if attachErr := a.Users.AttachAuthUID(ctx, claims.Email, claims.UID); attachErr != nil {
				log.Printf("Failed to attach auth uid for %s: %v", claims.Email, attachErr)
			}
			user.AuthUID = claims.UID
			return user, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}

	user = &models.User{
		ID:           uuid.NewString(),
		AuthUID:      claims.UID,
		Email:        claims.Email,
		Name:         claims.Name,
		InitialLevel: models.DifficultyMedium,
		Role:         models.RoleStudent,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	log.Printf("Provisioned new user %s (%s)", user.ID, user.Email)
	return user, nil
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
