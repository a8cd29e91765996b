package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              string
	DatabaseURL       string
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration
	JWTSecret         []byte
	CORSOrigins       []string
	RequestTimeoutSec int
	// AppPublicURL is the frontend base URL, used for the QR link on the
	// exported PDF.
	AppPublicURL string
	// DNI at-rest encryption: "v1:<base64 32-byte key>[,v2:...]" plus the
	// version new writes use.
	DataEncryptionKeys string
	CurrentDataKeyVer  string
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		jwtSecret = "default-secret-min-32-chars-required!!"
	}
	var origins []string
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	return &Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 0),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 0),
		DBMaxConnLifetime:  time.Duration(getEnvInt("DB_MAX_CONN_LIFETIME_MIN", 0)) * time.Minute,
		JWTSecret:          []byte(jwtSecret),
		CORSOrigins:        origins,
		RequestTimeoutSec:  getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		AppPublicURL:       getEnv("APP_PUBLIC_URL", "http://localhost:5173"),
		DataEncryptionKeys: getEnv("DATA_ENCRYPTION_KEYS", "v1:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		CurrentDataKeyVer:  getEnv("CURRENT_DATA_KEY_VERSION", "v1"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
