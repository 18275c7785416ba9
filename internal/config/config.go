package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultAppSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env           string
	AppSecret     string
	AdminPassword string
	DatabaseURL   string
	Port          string
	SiteName      string
	SiteUrl       string

	// TrustedProxies 允许设置 X-Forwarded-For 的代理地址（IP 或 CIDR），为空时只认连接地址
	TrustedProxies []string

	SessionMaxAge      time.Duration // 用户会话有效期
	AdminSessionMaxAge time.Duration // 管理员会话有效期

	LogLevel  string
	LogFile   string
	SentryDSN string
}

// Load 加载配置
func Load() *Config {
	sessionDays, err := strconv.Atoi(getEnv("SESSION_MAX_AGE_DAYS", "30"))
	if err != nil || sessionDays <= 0 {
		sessionDays = 30
	}
	adminHours, err := strconv.Atoi(getEnv("ADMIN_SESSION_HOURS", "24"))
	if err != nil || adminHours <= 0 {
		adminHours = 24
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "geppu")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	env := getEnv("APP_ENV", "development")
	appSecret := getEnv("APP_SECRET", defaultAppSecret)
	if env == "production" && appSecret == defaultAppSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		fmt.Println("【警告】未设置 ADMIN_PASSWORD，管理后台登录已禁用。")
	}

	return &Config{
		Env:                env,
		AppSecret:          appSecret,
		AdminPassword:      adminPassword,
		DatabaseURL:        dbURL,
		Port:               getEnv("PORT", "5005"),
		SiteName:           getEnv("SITE_NAME", "Geppu"),
		SiteUrl:            getEnv("SITE_URL", "http://localhost:5005"),
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
		SessionMaxAge:      time.Duration(sessionDays) * 24 * time.Hour,
		AdminSessionMaxAge: time.Duration(adminHours) * time.Hour,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
	}
}

// IsProduction 是否生产环境（决定 Cookie 的 Secure 标志）
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList 解析逗号分隔的列表，忽略空项
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
