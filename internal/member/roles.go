package member

import "strings"

const (
	RoleAdmin  = "admin"
	RoleLeader = "leader"
	RoleMember = "member"
	RoleGuest  = "guest"
)

var coreTeamAliases = map[string]bool{
	"core team": true,
	"core":      true,
	"coreteam":  true,
}

var corePositions = map[string]bool{
	"head":      true,
	"executive": true,
}

// IsCoreAdmin reports whether a team/position pair qualifies for the
// automatic admin role. Matching is case-insensitive.
func IsCoreAdmin(teamName, position string) bool {
	return coreTeamAliases[strings.ToLower(strings.TrimSpace(teamName))] &&
		corePositions[strings.ToLower(strings.TrimSpace(position))]
}

// DeriveRole computes the role to persist. Core-team heads and executives are
// always admin; otherwise the caller's requested role wins, then the current
// role, then plain member. Roles are never settable past this function.
func DeriveRole(teamName, position, requested, current string) string {
	if IsCoreAdmin(teamName, position) {
		return RoleAdmin
	}
	if requested != "" {
		return requested
	}
	if current != "" {
		return current
	}
	return RoleMember
}

// AccessLabel maps a team/position pair to the display access level shown on
// rosters and CSV exports. Matching is case-sensitive on the exact position
// strings the profile forms write; anything else yields an empty label,
// which the UI renders as no access.
func AccessLabel(teamName, position string) string {
	if teamName == "Core team" {
		switch position {
		case "head", "executive", "Head", "Executive":
			return "Admin"
		}
	}
	switch position {
	case "Lead", "lead":
		return "Lead"
	case "Co-Lead", "colead", "Co-lead":
		return "Co-Lead"
	case "Member", "member":
		return "Member"
	}
	return ""
}
