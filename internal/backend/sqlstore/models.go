package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pitchbridge/internal/domain"
)

// Ids are generated here rather than by column defaults so the same models
// migrate on both postgres and sqlite.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Account) TableName() string { return "auth_account" }

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}

type Token struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID    uuid.UUID `gorm:"type:uuid;index;not null" json:"account_id"`
	AccessToken  string    `gorm:"uniqueIndex;not null;column:access_token" json:"access_token"`
	RefreshToken string    `gorm:"uniqueIndex;not null;column:refresh_token" json:"refresh_token"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Token) TableName() string { return "auth_token" }

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string    `gorm:"column:full_name;not null" json:"full_name"`
	Email       string    `gorm:"index" json:"email"`
	Role        string    `gorm:"index;not null" json:"role"`
	IsAdmin     bool      `gorm:"column:is_admin;not null" json:"is_admin"`
	IsVerified  bool      `gorm:"column:is_verified;index;not null" json:"is_verified"`
	AvatarColor string    `gorm:"column:avatar_color" json:"avatar_color"`
	Focus       string    `json:"focus"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return domain.TableProfiles }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}

type Idea struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;column:user_id;index;not null" json:"user_id"`
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	FundingAsk string    `gorm:"column:funding_ask;not null" json:"funding_ask"`
	Category   string    `gorm:"not null" json:"category"`
	Likes      int       `gorm:"not null" json:"likes"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Idea) TableName() string { return domain.TableIdeas }

func (i *Idea) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	if i.FundingAsk == "" {
		i.FundingAsk = domain.DefaultFundingAsk
	}
	if i.Category == "" {
		i.Category = domain.DefaultCategory
	}
	return nil
}

type ConnectRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;column:from_user_id;index;not null" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"type:uuid;column:to_user_id;index;not null" json:"to_user_id"`
	Status     string    `gorm:"index;not null" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (ConnectRequest) TableName() string { return domain.TableConnectRequests }

func (c *ConnectRequest) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	if c.Status == "" {
		c.Status = string(domain.StatusPending)
	}
	return nil
}

type NdaRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID     uuid.UUID `gorm:"type:uuid;column:idea_id;index;not null" json:"idea_id"`
	InvestorID uuid.UUID `gorm:"type:uuid;column:investor_id;index;not null" json:"investor_id"`
	Status     string    `gorm:"index;not null" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (NdaRequest) TableName() string { return domain.TableNdaRequests }

func (n *NdaRequest) BeforeCreate(tx *gorm.DB) error {
	newID(&n.ID)
	if n.Status == "" {
		n.Status = string(domain.StatusPending)
	}
	return nil
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// auth
		&Account{},
		&Token{},

		// marketplace
		&Profile{},
		&Idea{},
		&ConnectRequest{},
		&NdaRequest{},
	)
}
