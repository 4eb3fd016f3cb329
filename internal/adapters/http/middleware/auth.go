package middleware

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/dto"
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/platform/config"
)

// ContextKeyClaims is the gin context key of the extracted claims.
const ContextKeyClaims = "claims"

const (
	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
	defaultScopesHeader  = "X-User-Scopes"
)

// Claims are the identity headers set by the gateway in front of the
// service after it has validated the caller's token.
type Claims struct {
	Subject string
	Roles   []string
	Scopes  []string
}

// HasRole reports whether the caller has role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasScope reports whether the caller was granted scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ExtractClaims reads the identity headers named in cfg. Roles are comma
// separated, scopes space separated.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader, rolesHeader, scopesHeader := defaultSubjectHeader, defaultRolesHeader, defaultScopesHeader

	if cfg != nil {
		subjectHeader = cmp.Or(cfg.SubjectHeader, subjectHeader)
		rolesHeader = cmp.Or(cfg.RolesHeader, rolesHeader)
		scopesHeader = cmp.Or(cfg.ScopesHeader, scopesHeader)
	}

	claims := &Claims{Subject: strings.TrimSpace(c.GetHeader(subjectHeader))}

	for _, role := range strings.Split(c.GetHeader(rolesHeader), ",") {
		if role = strings.TrimSpace(role); role != "" {
			claims.Roles = append(claims.Roles, role)
		}
	}

	claims.Scopes = strings.Fields(c.GetHeader(scopesHeader))

	return claims
}

// GetClaims returns the claims stored by an auth middleware, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	return nil
}

// RequireAuth rejects requests without a subject header.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkSubject(claimsFor(c, cfg)); err != nil {
			dto.AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

// RequireRole rejects requests whose claims lack role.
func RequireRole(cfg *config.AuthConfig, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkRole(claimsFor(c, cfg), role); err != nil {
			dto.AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

// RequireAdmin guards the admin API: an authenticated subject with the
// configured admin role. With gateway auth disabled the admin API is
// closed entirely.
func RequireAdmin(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			dto.AbortWithError(c, domain.NewForbiddenError("admin API", "gateway auth is disabled"))
			return
		}

		claims := claimsFor(c, cfg)
		if err := checkSubject(claims); err != nil {
			dto.AbortWithError(c, err)
			return
		}
		if err := checkRole(claims, cfg.AdminRole); err != nil {
			dto.AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

func checkSubject(claims *Claims) error {
	if claims.Subject == "" {
		return domain.NewForbiddenError("request", "authentication required")
	}

	return nil
}

func checkRole(claims *Claims, role string) error {
	if !claims.HasRole(role) {
		return domain.NewForbiddenError("request", "role "+role+" required")
	}

	return nil
}

func claimsFor(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)

	return claims
}
