package config

import (
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mbolis/grace-register/kv"
	"github.com/mbolis/grace-register/log"
)

type Config struct {
	Addr              string
	DBUrl             string
	TokenSecret       string
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string
	PublicURL         string
	StaticDir         string
	PrivateDir        string
	StorageQuota      int
	GeminiAPIKey      string
	GeminiModel       string
	GenerateTimeout   time.Duration
	Debug             bool
}

// Load reads the configuration from, in increasing priority: defaults,
// an optional config.yaml, GRACE_* environment variables (a .env file is
// loaded into the environment first) and command line flags.
func Load(args []string) (cfg Config, err error) {
	if err = godotenv.Load(); err != nil {
		log.Debugf("config.dotenv: %s", err)
	}

	flags := pflag.NewFlagSet("grace-register", pflag.ContinueOnError)
	flags.String("host", "0.0.0.0", "listen host name")
	flags.Uint("port", 8080, "listen port number")
	flags.String("db-url", "grace.sqlite", "path to SQLite3 DB file")
	flags.String("token-secret", "", "secret key for token encryption and decryption")
	flags.Uint("token-ttl", 3600, "token TTL in seconds")
	flags.String("admin-user", "admin", "administrator user name")
	flags.String("admin-password-hash", "", "bcrypt hash of the administrator password")
	flags.String("public-url", "", "base URL used in shared links (default derived from the listen address)")
	flags.String("static-dir", "public", "directory of the front-end files")
	flags.String("private-dir", "private", "directory of the admin dashboard files")
	flags.Int("storage-quota", kv.DefaultQuota, "maximum stored bytes, 0 for no limit")
	flags.String("gemini-api-key", "", "Gemini API key, empty to use fixed texts")
	flags.String("gemini-model", "", "Gemini model name")
	flags.Uint("generate-timeout", 20, "text generation timeout in seconds")
	flags.Bool("debug", false, "log at DEBUG level")
	if err = flags.Parse(args); err != nil {
		return
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("grace")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err = v.BindPFlags(flags); err != nil {
		return
	}
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	cfg.Addr = net.JoinHostPort(v.GetString("host"), strconv.Itoa(v.GetInt("port")))
	cfg.DBUrl = v.GetString("db-url")
	cfg.TokenSecret = v.GetString("token-secret")
	cfg.TokenTTL = time.Duration(v.GetInt("token-ttl")) * time.Second
	cfg.AdminUser = v.GetString("admin-user")
	cfg.AdminPasswordHash = v.GetString("admin-password-hash")
	cfg.PublicURL = v.GetString("public-url")
	cfg.StaticDir = v.GetString("static-dir")
	cfg.PrivateDir = v.GetString("private-dir")
	cfg.StorageQuota = v.GetInt("storage-quota")
	cfg.GeminiAPIKey = v.GetString("gemini-api-key")
	cfg.GeminiModel = v.GetString("gemini-model")
	cfg.GenerateTimeout = time.Duration(v.GetInt("generate-timeout")) * time.Second
	cfg.Debug = v.GetBool("debug")

	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.Url() + "/"
	}

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter --token-secret")
	}

	return
}

var reAnyHost = regexp.MustCompile(`^(0\.0\.0\.0|\[::\])`)

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = reAnyHost.ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
