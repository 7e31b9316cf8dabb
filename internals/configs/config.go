package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	AppEnv             string
	Port               string
	JWTSecret          string
	JWTRefreshSecret   string
	GoogleClientID     string
	PublicBaseURL      string
	MediaRoot          string
	MediaURL           string
	MidtransServerKey  string
	MidtransUseProd    bool
	SendgridAPIKey     string
	MailFrom           string
	MailFromName       string
	RollbarToken       string
	CorsAllowOrigins   string
	BlacklistTTLDays   int
	SchoolTimezoneName string
	SchoolLocation     *time.Location
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			Log().Info("⚠️ .env file not found, using system ENV")
		} else {
			Log().Info("✅ .env file loaded")
		}
	} else {
		Log().Info("🚀 Running in Railway, using system ENV")
	}

	AppEnv = GetEnv("APP_ENV", "development")
	Port = GetEnv("PORT", "3000")
	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	PublicBaseURL = strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/")
	MediaRoot = GetEnv("MEDIA_ROOT", "./media")
	MediaURL = strings.TrimRight(GetEnv("MEDIA_URL", "/media"), "/")
	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = getBool("MIDTRANS_USE_PROD", false)
	SendgridAPIKey = GetEnv("SENDGRID_API_KEY")
	MailFrom = GetEnv("MAIL_FROM", "no-reply@classroom.local")
	MailFromName = GetEnv("MAIL_FROM_NAME", "Classroom")
	RollbarToken = GetEnv("ROLLBAR_TOKEN")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	BlacklistTTLDays = getInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

	SchoolTimezoneName = GetEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh")
	SchoolLocation = loadLocation(SchoolTimezoneName)

	if JWTSecret == "" {
		Log().Warn("❌ JWT_SECRET is not set")
	}
	if JWTRefreshSecret == "" {
		Log().Warn("❌ JWT_REFRESH_SECRET is not set")
	}
	if GoogleClientID == "" {
		Log().Info("GOOGLE_CLIENT_ID is not set, google login disabled")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func IsProduction() bool {
	return strings.EqualFold(AppEnv, "production")
}

// Location dipakai untuk menentukan "hari ini" (check-in QR, absensi)
func Location() *time.Location {
	if SchoolLocation != nil {
		return SchoolLocation
	}
	return time.UTC
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		Log().Warn("invalid APP_TIMEZONE, falling back to UTC", zap.String("tz", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

func getBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
