package handlers

import (
	"github.com/jmoiron/sqlx"

	"swapflow/internal/config"
	applog "swapflow/internal/log"
	"swapflow/internal/repos"
	"swapflow/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	ItemHandler    *ItemHandler
	TradeHandler   *TradeHandler
	MessageHandler *MessageHandler
	MiscHandler    *MiscHandler
	AdminHandler   *AdminHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	itemRepo := repos.NewItemRepo(db)
	pinRepo := repos.NewPinRepo(db)
	tradeRepo := repos.NewTradeRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	portfolioRepo := repos.NewPortfolioRepo(db)
	msgRepo := repos.NewMessageRepo(db)
	reportRepo := repos.NewReportRepo(db)
	annRepo := repos.NewAnnouncementRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)

	authSvc := &services.AuthService{Users: userRepo, Cfg: cfg}
	pinSvc := services.NewPinService(pinRepo)
	listingSvc := services.NewListingService(itemRepo, catRepo, portfolioRepo, settingsRepo)
	listingSvc.OnClickErr = func(category string, err error) {
		applog.Error(nil, "category.click.fail", err, map[string]any{"category": category})
	}
	tradeSvc := services.NewTradeService(tradeRepo, itemRepo)
	msgSvc := services.NewMessageService(msgRepo, userRepo)
	adminSvc := &services.AdminService{
		Users: userRepo, Items: itemRepo, Trades: tradeRepo,
		Reports: reportRepo, Cats: catRepo,
		Announcements: annRepo, Settings: settingsRepo,
	}

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: authSvc},
		UserHandler:    &UserHandler{Users: userRepo, Listing: listingSvc},
		ItemHandler:    &ItemHandler{Listing: listingSvc, Pins: pinSvc, Users: userRepo},
		TradeHandler:   &TradeHandler{Trades: tradeSvc, Items: itemRepo, Users: userRepo},
		MessageHandler: &MessageHandler{Messages: msgSvc},
		MiscHandler:    &MiscHandler{Reports: reportRepo, Announcements: annRepo, Settings: settingsRepo},
		AdminHandler:   &AdminHandler{Admin: adminSvc},
		Auth:           authSvc,
	}
}
