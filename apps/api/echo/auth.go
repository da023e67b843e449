package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	TokenType string `json:"token_type"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
}

// userID returns the ID of the user the token was issued to.
func (c Claims) userID() (int, error) {
	return strconv.Atoi(c.Subject)
}

// authenticator issues and checks access/refresh token pairs.
// Revoked refresh tokens are remembered until they would have expired anyway.
type authenticator struct {
	appName      string
	signingKey   []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
	revoked      *cache.Cache
	jwtValidator echo.MiddlewareFunc
}

func newAuthenticator(conf *core.Config) *authenticator {
	a := &authenticator{
		appName:    conf.AppName,
		signingKey: []byte(conf.SecretKey),
		accessTTL:  conf.Server.JWTExpirationDelta,
		refreshTTL: conf.Server.JWTRefreshExpirationDelta,
		revoked:    cache.New(conf.Server.JWTRefreshExpirationDelta, 10*time.Minute),
	}
	a.jwtValidator = middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    a.signingKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	})
	return a
}

func (a *authenticator) claims(usr user.User, tokenType string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    a.appName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		TokenType: tokenType,
		Username:  usr.Username,
		Role:      usr.Role,
	}
}

// sign generates a signed JWT token string representing the Claims.
func (a *authenticator) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// issuePair returns a new access and refresh token for usr.
func (a *authenticator) issuePair(usr user.User) (access, refresh string, err error) {
	if access, err = a.sign(a.claims(usr, tokenTypeAccess, a.accessTTL)); err != nil {
		return "", "", err
	}
	if refresh, err = a.sign(a.claims(usr, tokenTypeRefresh, a.refreshTTL)); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// parseRefresh validates a refresh token string.
func (a *authenticator) parseRefresh(raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errTokenInvalid
	}
	if claims.TokenType != tokenTypeRefresh || a.isRevoked(claims.Id) {
		return nil, errTokenInvalid
	}
	return claims, nil
}

func (a *authenticator) revoke(claims *Claims) {
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return
	}
	a.revoked.Set(claims.Id, struct{}{}, ttl)
}

func (a *authenticator) isRevoked(id string) bool {
	_, found := a.revoked.Get(id)
	return found
}

// authenticated chains the JWT middleware with access-token checks and loads the context user.
func (a *authenticator) authenticated(svc user.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return a.jwtValidator(func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.TokenType != tokenTypeAccess {
				return errTokenInvalid
			}
			id, err := claims.userID()
			if err != nil {
				return errTokenInvalid
			}
			usr, err := svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errTokenInvalid
				}
				return errors.Wrap(err, "finding user by ID")
			}
			if !usr.IsActive {
				return errAccountDeactivated
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		})
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}
