package middleware

import (
	"net/http"
	"net/url"
	"strings"

	pkgAuth "github.com/scholarbridge/scholarbridge-backend/pkg/auth"
	"github.com/scholarbridge/scholarbridge-backend/pkg/config"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

const (
	signinPath           = "/auth/signin"
	dashboardPath        = "/dashboard"
	studentDashboardPath = "/dashboard/student"
	callbackParam        = "callbackUrl"
)

// Route classification for the page gate. A path may land in more than one
// set; the decision order below resolves overlaps.
var (
	publicPrefixes = []string{
		"/scholarships",
		"/resources",
		"/auth/signin",
		"/auth/signup",
	}
	adminPrefixes = []string{
		"/dashboard/scholarships/new",
		"/dashboard/scholarships/edit",
		"/dashboard/users",
		"/dashboard/resources",
		"/dashboard/moderation",
	}
	superAdminPrefixes = []string{
		"/dashboard/moderation",
	}
	studentPrefixes = []string{
		"/apply",
	}
)

// Gate authorizes page navigations before any page logic runs. API routes and
// static assets are mounted outside of it.
//
// Decision order: public allow-list first; then the signed-out redirect; then
// role rules from most to least privileged; then the bare-dashboard special
// case. A malformed or expired token counts as signed out.
func Gate(cfg config.JWTConfig, gateCfg config.GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if isPublicPath(path) {
				next.ServeHTTP(w, r)
				return
			}

			role, signedIn := roleFromRequest(cfg, gateCfg, r)
			if !signedIn {
				redirect(w, r, signinPath+"?"+callbackParam+"="+url.QueryEscape(path))
				return
			}

			if matchesAny(path, superAdminPrefixes) && role != enums.UserRoleSuperAdmin {
				redirect(w, r, dashboardPath)
				return
			}
			if matchesAny(path, adminPrefixes) && role != enums.UserRoleAdmin && role != enums.UserRoleSuperAdmin {
				redirect(w, r, studentDashboardPath)
				return
			}
			if matchesAny(path, studentPrefixes) && role != enums.UserRoleStudent {
				redirect(w, r, dashboardPath)
				return
			}
			if path == dashboardPath && role == enums.UserRoleStudent {
				redirect(w, r, studentDashboardPath)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	if path == "/" {
		return true
	}
	return matchesAny(path, publicPrefixes)
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// roleFromRequest extracts the role claim from the bearer header or the
// session cookie. Invalid tokens are indistinguishable from absent ones.
func roleFromRequest(cfg config.JWTConfig, gateCfg config.GateConfig, r *http.Request) (enums.UserRole, bool) {
	token := bearerToken(r)
	if token == "" && gateCfg.SessionCookie != "" {
		if cookie, err := r.Cookie(gateCfg.SessionCookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		return "", false
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return "", false
	}
	return claims.Role, true
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
