package domain

import (
	"strings"
	"unicode/utf8"
)

const DefaultAvatarColor = "#7c6fff"

// AvatarPalette is the fixed set new profiles draw their colour from.
var AvatarPalette = []string{"#7c6fff", "#ff5f6d", "#3ddc84", "#f0c040", "#ff9f43", "#54a0ff"}

const (
	IdeaTeaser           = "🔒 Full pitch & financials visible after NDA agreement"
	ConnectRequestDetail = "Investor wants to connect. Ready to schedule."
	DirectoryFocus       = "Open to all ideas"
	SidebarFocus         = "Various"
)

func InPalette(color string) bool {
	for _, c := range AvatarPalette {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// Initials takes the first letter of each word, upper-cased, capped at two.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
		n++
		if n == 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}

// FirstName is used for the welcome greeting.
func FirstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

func BadgeClass(category string) string {
	switch category {
	case "AI":
		return "badge-ai"
	case "EV":
		return "badge-ev"
	case "Product":
		return "badge-product"
	default:
		return "badge-tech"
	}
}

type IdeaCard struct {
	ID                string `json:"id"`
	OwnerID           string `json:"owner_id"`
	OwnerName         string `json:"owner_name"`
	OwnerRole         string `json:"owner_role"`
	OwnerInitials     string `json:"owner_initials"`
	OwnerColor        string `json:"owner_color"`
	Category          string `json:"category"`
	BadgeClass        string `json:"badge_class"`
	Title             string `json:"title"`
	Body              string `json:"body"`
	Teaser            string `json:"teaser"`
	Likes             int    `json:"likes"`
	FundingAsk        string `json:"funding_ask"`
	Seeking           string `json:"seeking"`
	ShowRequestAccess bool   `json:"show_request_access"`
}

// NewIdeaCard renders one idea for viewer. The teaser is advisory: title, body
// and ask are visible to everyone.
func NewIdeaCard(idea Idea, viewer *Profile) IdeaCard {
	owner := Owner{}
	if idea.Owner != nil {
		owner = *idea.Owner
	}
	name := owner.FullName
	if strings.TrimSpace(name) == "" {
		name = "Anonymous"
	}
	color := owner.AvatarColor
	if strings.TrimSpace(color) == "" {
		color = DefaultAvatarColor
	}
	return IdeaCard{
		ID:                idea.ID,
		OwnerID:           idea.UserID,
		OwnerName:         name,
		OwnerRole:         owner.Role.Label(),
		OwnerInitials:     Initials(name),
		OwnerColor:        color,
		Category:          idea.Category,
		BadgeClass:        BadgeClass(idea.Category),
		Title:             idea.Title,
		Body:              idea.Body,
		Teaser:            IdeaTeaser,
		Likes:             idea.Likes,
		FundingAsk:        idea.FundingAsk,
		Seeking:           "Seeking: " + idea.FundingAsk,
		ShowRequestAccess: CapabilitiesFor(viewer).RequestAccess,
	}
}

func NewIdeaCards(ideas []Idea, viewer *Profile) []IdeaCard {
	cards := make([]IdeaCard, 0, len(ideas))
	for _, idea := range ideas {
		cards = append(cards, NewIdeaCard(idea, viewer))
	}
	return cards
}

type InvestorCard struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
	Focus    string `json:"focus"`
	Verified bool   `json:"verified"`
}

func NewInvestorCard(p Profile, focusFallback string) InvestorCard {
	name := p.DisplayName("Investor")
	focus := p.Focus
	if strings.TrimSpace(focus) == "" {
		focus = focusFallback
	}
	return InvestorCard{
		ID:       p.ID,
		Name:     name,
		Initials: Initials(name),
		Color:    p.Color(),
		Focus:    focus,
		Verified: p.IsVerified,
	}
}

type PendingVerification struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func NewPendingVerification(p Profile) PendingVerification {
	initials := Initials(p.FullName)
	if initials == "" {
		initials = "?"
	}
	return PendingVerification{
		ID:       p.ID,
		Name:     p.FullName,
		Initials: initials,
		Color:    p.Color(),
		Email:    p.Email,
		Role:     p.Role,
	}
}

type PendingRequest struct {
	ID          string `json:"id"`
	FromName    string `json:"from_name"`
	ToName      string `json:"to_name"`
	FromInitial string `json:"from_initial"`
	Detail      string `json:"detail"`
}

func NewPendingRequest(r ConnectRequest) PendingRequest {
	from, to := "Someone", "Someone"
	if r.From != nil && strings.TrimSpace(r.From.FullName) != "" {
		from = r.From.FullName
	}
	if r.To != nil && strings.TrimSpace(r.To.FullName) != "" {
		to = r.To.FullName
	}
	first, _ := utf8.DecodeRuneInString(from)
	return PendingRequest{
		ID:          r.ID,
		FromName:    from,
		ToName:      to,
		FromInitial: string(first),
		Detail:      ConnectRequestDetail,
	}
}
