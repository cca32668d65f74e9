package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type RoomConfig struct {
	Code    string `mapstructure:"code"`
	Name    string `mapstructure:"name"`
	Pin     string `mapstructure:"pin"`
	TipsURL string `mapstructure:"tips_url"`
}

type RoomsConfig struct {
	AllowCreate bool `mapstructure:"allow_create"`
}

type RateLimitConfig struct {
	ConnLimit    int           `mapstructure:"conn_limit"`
	ConnInterval time.Duration `mapstructure:"conn_interval"`
	UserLimit    int           `mapstructure:"user_limit"`
	UserInterval time.Duration `mapstructure:"user_interval"`
}

type Config struct {
	Mode            string          `mapstructure:"mode"`
	Port            int             `mapstructure:"port"`
	StaticPath      string          `mapstructure:"static_path"`
	ReadLimit       int64           `mapstructure:"read_limit"`
	PingPeriod      time.Duration   `mapstructure:"ping_period"`
	SendBuffer      int             `mapstructure:"send_buffer"`
	Secret          string          `mapstructure:"secret"`
	LogLevel        string          `mapstructure:"log_level"`
	VoteIdentity    string          `mapstructure:"vote_identity"`
	NowPlayingMatch string          `mapstructure:"now_playing_match"`
	Room            RoomConfig      `mapstructure:"room"`
	Rooms           RoomsConfig     `mapstructure:"rooms"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

const envPrefix = "JUKEBOX"

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 4000)
	v.SetDefault("static_path", "")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("vote_identity", "connection")
	v.SetDefault("now_playing_match", "prefix")
	v.SetDefault("room.code", "")
	v.SetDefault("room.name", "New Room")
	v.SetDefault("room.pin", "")
	v.SetDefault("room.tips_url", "")
	v.SetDefault("rooms.allow_create", false)
	v.SetDefault("rate_limit.conn_limit", 10)
	v.SetDefault("rate_limit.conn_interval", "10s")
	v.SetDefault("rate_limit.user_limit", 5)
	v.SetDefault("rate_limit.user_interval", "10s")
}

// Flags declares the command-line overrides. They win over file and env.
func Flags(fs *pflag.FlagSet) {
	fs.Int("port", 4000, "HTTP listen port")
	fs.String("mode", "release", "gin mode: release or debug")
	fs.String("log_level", "info", "zerolog level")
	fs.String("static_path", "", "directory with the built client, empty to disable")
	fs.String("room.code", "", "code of the room created at startup")
	fs.String("room.pin", "", "DJ pin of the room created at startup")
}

// Load reads .env, then config/config.<CONFIG_ENV>.yaml, then JUKEBOX_*
// variables, then fs. fs may be nil. onLogLevel, when set, is called with the
// new level every time the config file changes.
func Load(fs *pflag.FlagSet, onLogLevel func(string)) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info().Str("module", "config").Msg("loaded .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	fileLoaded := false
	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		fileLoaded = true
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if fileLoaded && onLogLevel != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			level := v.GetString("log_level")
			log.Info().Str("module", "config").Str("file", e.Name).Str("log_level", level).Msg("config changed")
			onLogLevel(level)
		})
		v.WatchConfig()
	}

	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}
