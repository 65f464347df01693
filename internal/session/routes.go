package session

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Virtual routes of the storefront.
const (
	RouteHome           = "/"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteProfile        = "/profile"
	RouteAdmin          = "/admin"
	RouteProduct        = "/product/"
)

// DefaultProfileTab is opened when the tab query is missing or unknown.
const DefaultProfileTab = "orders"

// ProfileTabs lists the tabs of the profile page.
var ProfileTabs = []string{"profile", "orders", "wishlist", "listings", "addresses", "payments"}

// Decision is the outcome of authorizing a route.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Status   int    `json:"status"`
	Tab      string `json:"tab,omitempty"`
}

// Authorize decides whether user may open route. Unknown routes fall back to
// home, the same as an unmatched client route.
func Authorize(route string, user *User) Decision {
	u, err := url.Parse(route)
	if err != nil {
		return Decision{Redirect: RouteHome, Status: http.StatusFound}
	}

	path := u.Path
	if path == "" {
		path = RouteHome
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	switch {
	case path == RouteHome, path == RouteLogin, path == RouteRegister, path == RouteForgotPassword:
		return allow()

	case strings.HasPrefix(path, RouteProduct):
		if _, err := strconv.ParseUint(strings.TrimPrefix(path, RouteProduct), 10, 64); err != nil {
			return Decision{Status: http.StatusNotFound}
		}
		return allow()

	case path == RouteProfile:
		if user == nil {
			return redirect(RouteLogin)
		}
		d := allow()
		d.Tab = ProfileTab(u.Query().Get("tab"))
		return d

	case path == RouteAdmin:
		if user == nil {
			return redirect(RouteLogin)
		}
		if !user.IsAdmin() {
			return Decision{Status: http.StatusForbidden}
		}
		return allow()
	}

	return redirect(RouteHome)
}

// ProfileTab validates a requested tab, falling back to DefaultProfileTab.
func ProfileTab(tab string) string {
	if slices.Contains(ProfileTabs, tab) {
		return tab
	}
	return DefaultProfileTab
}

func allow() Decision {
	return Decision{Allowed: true, Status: http.StatusOK}
}

func redirect(to string) Decision {
	return Decision{Redirect: to, Status: http.StatusFound}
}
