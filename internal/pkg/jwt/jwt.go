package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingPrincipal = errors.New("authenticated principal is missing")
	ErrInvalidPrincipal = errors.New("token claims do not describe a valid principal")
)

const (
	ClaimEmployeeID = "user_id"
	ClaimRole       = "role"
	ClaimType       = "type"

	TokenTypeAccess = "access"
)

// Principal is the authenticated caller, taken as-is from verified token claims.
type Principal struct {
	ID   string
	Role employee.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == employee.RoleAdmin
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	// GenerateAccessToken mints an access token. Issuance belongs to the identity
	// service; this exists for operators and tests.
	GenerateAccessToken(employeeID string, role employee.Role, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, role employee.Role, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimEmployeeID: employeeID,
		ClaimRole:       string(role),
		ClaimType:       TokenTypeAccess,
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

// PrincipalFromClaims validates the claim shape of an access token.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	id, ok := claims[ClaimEmployeeID].(string)
	if !ok || id == "" {
		return Principal{}, ErrInvalidPrincipal
	}
	role, ok := claims[ClaimRole].(string)
	if !ok {
		return Principal{}, ErrInvalidPrincipal
	}
	switch employee.Role(role) {
	case employee.RoleAdmin, employee.RoleEmployee:
	default:
		return Principal{}, ErrInvalidPrincipal
	}
	return Principal{ID: id, Role: employee.Role(role)}, nil
}

// PrincipalFromContext reads the principal from a context populated by jwtauth.Verifier.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Principal{}, err
	}
	if token == nil {
		return Principal{}, ErrMissingPrincipal
	}
	return PrincipalFromClaims(claims)
}
