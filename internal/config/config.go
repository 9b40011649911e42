package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port              string
	DBDSN             string
	LogFile           string
	AdminEmails       []string
	MaxPortfolioItems int
	CORSOrigins       string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "swapflow.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./swapflow.log"
	}

	// Comma-separated allowlist; matching emails register as ADMIN.
	var admins []string
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			admins = append(admins, e)
		}
	}

	maxPortfolio := 7
	if v := os.Getenv("MAX_PORTFOLIO_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxPortfolio = n
		}
	}

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "*"
	}

	cfg := Config{
		Port:              port,
		DBDSN:             dsn,
		LogFile:           logFile,
		AdminEmails:       admins,
		MaxPortfolioItems: maxPortfolio,
		CORSOrigins:       origins,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s ADMIN_EMAILS=%d MAX_PORTFOLIO_ITEMS=%d",
		cfg.Port, cfg.DBDSN, cfg.LogFile, len(cfg.AdminEmails), cfg.MaxPortfolioItems)
	return cfg
}

// IsAdminEmail reports whether the email is on the configured allowlist.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}
