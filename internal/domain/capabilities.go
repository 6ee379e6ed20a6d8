package domain

// Capabilities is the single place views consult to decide what to show.
type Capabilities struct {
	PostIdeas     bool `json:"post_ideas"`
	RequestAccess bool `json:"request_access"`
	Admin         bool `json:"admin"`
}

func CapabilitiesFor(p *Profile) Capabilities {
	if p == nil {
		return Capabilities{PostIdeas: true}
	}
	return Capabilities{
		// Only pure investors lose the composer; "both" keeps it.
		PostIdeas:     p.Role != RoleInvestor,
		RequestAccess: p.Role.IsInvestor(),
		Admin:         p.IsAdmin,
	}
}
