package config

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvStaging     = "staging"
	EnvTest        = "test"
	EnvDevelopment = "development"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 24 * time.Hour
)

var ErrMisconfigured = errors.New("config invalid")

// Config - 애플리케이션 설정. TrustedProxies가 비어 있으면 X-Forwarded-For를 무시한다.
type Config struct {
	Environment    string
	Port           int
	TrustedProxies []string
	Auth           AuthConfig
	Client         ClientConfig
	Mail           MailConfig
	Google         GoogleConfig
	AWS            AWSConfig
	Slack          SlackConfig
	Redis          RedisConfig
	Postgres       PostgresConfig
	Logging        LoggingConfig
}

type AuthConfig struct {
	AccessSecret      string
	RefreshSecret     string
	ActionSecret      string
	AccessCookieName  string
	RefreshCookieName string
	CookieDomain      string
}

type ClientConfig struct {
	CustomerOrigin string
	AdminOrigin    string
}

type MailConfig struct {
	SenderAddress string
	AdminAddress  string
	LogoURL       string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type AWSConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type RedisConfig struct {
	URL string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// CookieConfig is the attribute set shared by the two session cookies.
type CookieConfig struct {
	AccessName    string
	RefreshName   string
	Path          string
	Domain        string
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  int
	RefreshMaxAge int
}

// Load reads .env (when present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	env := strings.ToLower(getenv("APP_ENV", os.Getenv("NODE_ENV")))
	switch env {
	case EnvProduction, EnvStaging, EnvTest:
	default:
		env = EnvDevelopment
	}

	return Config{
		Environment:    env,
		Port:           loadPort(env),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		Auth: AuthConfig{
			AccessSecret:      os.Getenv("APP_ACCESS_SECRET"),
			RefreshSecret:     os.Getenv("APP_REFRESH_SECRET"),
			ActionSecret:      os.Getenv("APP_TOKEN_SECRET"),
			AccessCookieName:  getenv("ACCESS_COOKIE_NAME", "stcker_acc_token"),
			RefreshCookieName: getenv("REFRESH_COOKIE_NAME", "stcker_ref_token"),
			CookieDomain:      getenv("COOKIE_DOMAIN", ".stcker.com"),
		},
		Client: ClientConfig{
			CustomerOrigin: os.Getenv("CLIENT_CUSTOMER_ORIGIN"),
			AdminOrigin:    os.Getenv("CLIENT_ADMIN_ORIGIN"),
		},
		Mail: MailConfig{
			SenderAddress: os.Getenv("SENDER_EMAIL_ADDRESS"),
			AdminAddress:  os.Getenv("ADMIN_EMAIL_ADDRESS"),
			LogoURL:       getenv("COMPANY_LOGO_URL", "https://kenzy-ecommerce.s3.af-south-1.amazonaws.com/logo.png"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		AWS: AWSConfig{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Region:          getenv("AWS_DEFAULT_REGION", "af-south-1"),
			Bucket:          os.Getenv("AWS_BUCKET"),
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Redis: RedisConfig{
			URL: getenv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", ""),
		},
	}
}

// Validate rejects configurations the session layer cannot run with.
func (c Config) Validate() error {
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return errors.Join(ErrMisconfigured, errors.New("APP_ACCESS_SECRET and APP_REFRESH_SECRET are required"))
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.Join(ErrMisconfigured, errors.New("access and refresh secrets must differ"))
	}
	if c.Auth.ActionSecret == "" {
		return errors.Join(ErrMisconfigured, errors.New("APP_TOKEN_SECRET is required"))
	}
	if c.Auth.ActionSecret == c.Auth.AccessSecret || c.Auth.ActionSecret == c.Auth.RefreshSecret {
		return errors.Join(ErrMisconfigured, errors.New("APP_TOKEN_SECRET must differ from the session secrets"))
	}
	if c.Auth.AccessCookieName == c.Auth.RefreshCookieName {
		return errors.Join(ErrMisconfigured, errors.New("cookie names must differ"))
	}
	return nil
}

func (c Config) IsProduction() bool { return c.Environment == EnvProduction }
func (c Config) IsStaging() bool    { return c.Environment == EnvStaging }
func (c Config) IsTesting() bool    { return c.Environment == EnvTest }

// Cookies derives the cookie attributes for the current environment.
func (c Config) Cookies() CookieConfig {
	cookies := CookieConfig{
		AccessName:    c.Auth.AccessCookieName,
		RefreshName:   c.Auth.RefreshCookieName,
		Path:          "/",
		AccessMaxAge:  int(AccessTokenTTL.Seconds()),
		RefreshMaxAge: int(RefreshTokenTTL.Seconds()),
		SameSite:      http.SameSiteDefaultMode,
	}
	if c.IsProduction() {
		cookies.Domain = c.Auth.CookieDomain
	}
	if c.IsProduction() || c.IsStaging() {
		cookies.Secure = true
		cookies.SameSite = http.SameSiteNoneMode
	}
	return cookies
}

// AllowedOrigins lists the browser origins allowed to send credentials.
func (c Config) AllowedOrigins() []string {
	origins := make([]string, 0, 2)
	for _, origin := range []string{c.Client.CustomerOrigin, c.Client.AdminOrigin} {
		if strings.TrimSpace(origin) != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func loadPort(env string) int {
	if raw := os.Getenv("PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			return port
		}
	}
	if env == EnvTest {
		return 1000 + rand.IntN(9000)
	}
	return 5000
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
