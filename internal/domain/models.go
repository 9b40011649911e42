package domain

type Item struct {
	ItemID         string  `db:"item_id" json:"item_id"`
	UserID         string  `db:"user_id" json:"user_id"`
	Title          string  `db:"title" json:"title"`
	Description    string  `db:"description" json:"description,omitempty"`
	Image          string  `db:"image" json:"image"`
	Category       string  `db:"category" json:"category"`
	Subcategory    string  `db:"subcategory" json:"subcategory,omitempty"`
	BottomCategory string  `db:"bottom_category" json:"bottom_category,omitempty"`
	IsAvailable    bool    `db:"is_available" json:"is_available"`
	BoostScore     float64 `db:"boost_score" json:"boost_score"`
	PinCount       int     `db:"pin_count" json:"pin_count"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}

type Pin struct {
	UserID    string `db:"user_id" json:"user_id"`
	ItemID    string `db:"item_id" json:"item_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Category struct {
	Name       string `db:"name" json:"name"`
	Level      string `db:"level" json:"level"` // main | sub | bottom
	ClickCount int    `db:"click_count" json:"click_count"`
}

type Message struct {
	MessageID  string  `db:"message_id" json:"message_id"`
	SenderID   string  `db:"sender_id" json:"sender_id"`
	ReceiverID string  `db:"receiver_id" json:"receiver_id"`
	ItemID     *string `db:"item_id" json:"item_id,omitempty"`
	Content    string  `db:"content" json:"content"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
}

type Trade struct {
	TradeID         string  `db:"trade_id" json:"trade_id"`
	ItemID          string  `db:"item_id" json:"item_id"`
	OwnerID         string  `db:"owner_id" json:"owner_id"`
	TraderID        string  `db:"trader_id" json:"trader_id"`
	OwnerConfirmed  bool    `db:"owner_confirmed" json:"owner_confirmed"`
	TraderConfirmed bool    `db:"trader_confirmed" json:"trader_confirmed"`
	IsCompleted     bool    `db:"is_completed" json:"is_completed"`
	OwnerRating     *int    `db:"owner_rating" json:"owner_rating,omitempty"`
	TraderRating    *int    `db:"trader_rating" json:"trader_rating,omitempty"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
	CompletedAt     *string `db:"completed_at" json:"completed_at,omitempty"`
}

type Report struct {
	ReportID   string `db:"report_id" json:"report_id"`
	ReporterID string `db:"reporter_id" json:"reporter_id"`
	ReportType string `db:"report_type" json:"report_type"` // user | item
	ReportedID string `db:"reported_id" json:"reported_id"`
	Reason     string `db:"reason" json:"reason"`
	Status     string `db:"status" json:"status"` // pending | reviewed | resolved
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Announcement struct {
	AnnouncementID string `db:"announcement_id" json:"announcement_id"`
	Message        string `db:"message" json:"message"`
	IsActive       bool   `db:"is_active" json:"is_active"`
	CreatedBy      string `db:"created_by" json:"created_by"`
	CreatedAt      string `db:"created_at" json:"created_at"`
}

type Settings struct {
	MaxPortfolioItems int `db:"max_portfolio_items" json:"max_portfolio_items"`
}
