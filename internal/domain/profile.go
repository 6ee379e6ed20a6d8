package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleEntrepreneur Role = "entrepreneur"
	RoleInvestor     Role = "investor"
	RoleBoth         Role = "both"
)

// InvestorRoles are the roles that may appear in the investor directory.
var InvestorRoles = []Role{RoleInvestor, RoleBoth}

func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleEntrepreneur, RoleInvestor, RoleBoth:
		return r, true
	default:
		return "", false
	}
}

func (r Role) IsInvestor() bool { return r == RoleInvestor || r == RoleBoth }

// Label is the short role name shown on cards. Unknown roles pass through and
// a missing role reads as an entrepreneur.
func (r Role) Label() string {
	switch r {
	case RoleEntrepreneur, "":
		return "Entrepreneur"
	case RoleInvestor:
		return "Investor"
	case RoleBoth:
		return "Entrepreneur & Investor"
	default:
		return string(r)
	}
}

// Badge is the profile badge text; empty for unknown roles.
func (r Role) Badge() string {
	switch r {
	case RoleEntrepreneur:
		return "💡 Entrepreneur"
	case RoleInvestor:
		return "💼 Investor"
	case RoleBoth:
		return "⚡ Entrepreneur & Investor"
	default:
		return ""
	}
}

// Profile is one account's public identity. ID equals the account id.
type Profile struct {
	ID          string     `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	IsAdmin     bool       `json:"is_admin"`
	IsVerified  bool       `json:"is_verified"`
	AvatarColor string     `json:"avatar_color"`
	Focus       string     `json:"focus"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// DisplayName falls back to def when the profile has no name.
func (p *Profile) DisplayName(def string) string {
	if p == nil || strings.TrimSpace(p.FullName) == "" {
		return def
	}
	return p.FullName
}

func (p *Profile) Color() string {
	if p == nil || strings.TrimSpace(p.AvatarColor) == "" {
		return DefaultAvatarColor
	}
	return p.AvatarColor
}

// VisibleInDirectory reports whether the profile may be listed as a verified investor.
func (p *Profile) VisibleInDirectory() bool {
	return p != nil && p.IsVerified && p.Role.IsInvestor()
}
