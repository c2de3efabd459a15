package identity

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"agenthub/internal/model"
	"agenthub/internal/pkg/jwtutil"
	"agenthub/internal/repository"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver turns an inbound request into the current user. Downstream layers
// treat the result as fully trusted.
type Resolver interface {
	Resolve(c *gin.Context) (*model.User, error)
}

// MockResolver returns the same fixed identity for every request. It is the
// development default; swapping in JWTResolver requires no service changes.
type MockResolver struct {
	User model.User
}

func (r *MockResolver) Resolve(_ *gin.Context) (*model.User, error) {
	user := r.User
	return &user, nil
}

// JWTResolver verifies a bearer token and loads the user it names.
type JWTResolver struct {
	Secret   string
	UserRepo *repository.UserRepository
}

func (r *JWTResolver) Resolve(c *gin.Context) (*model.User, error) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return nil, ErrUnauthenticated
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	claims, err := jwtutil.ParseToken(r.Secret, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := r.UserRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
