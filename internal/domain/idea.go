package domain

import "time"

const (
	TableProfiles        = "profiles"
	TableIdeas           = "ideas"
	TableConnectRequests = "connect_requests"
	TableNdaRequests     = "nda_requests"
)

const (
	DefaultFundingAsk = "TBD"
	DefaultCategory   = "Tech"
)

// Categories offered by the composer. Other values are stored as given.
var Categories = []string{"AI", "EV", "Product", "Tech"}

// Owner is the embedded slice of the owning profile fetched with an idea.
type Owner struct {
	FullName    string `json:"full_name"`
	Role        Role   `json:"role"`
	AvatarColor string `json:"avatar_color"`
}

type Idea struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	FundingAsk string    `json:"funding_ask"`
	Category   string    `json:"category"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
	Owner      *Owner    `json:"profiles,omitempty"`
}
