package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "BINGO_"

// Config 客户端配置
type Config struct {
	Server     ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
	Connection ConnectionConfig `yaml:"connection" envPrefix:"CONNECTION_"`
	Reconnect  ReconnectConfig  `yaml:"reconnect" envPrefix:"RECONNECT_"`
	Game       GameConfig       `yaml:"game" envPrefix:"GAME_"`
	Player     PlayerConfig     `yaml:"player" envPrefix:"PLAYER_"`
	UI         UIConfig         `yaml:"ui" envPrefix:"UI_"`
}

// ServerConfig 权威服务地址
type ServerConfig struct {
	Origin      string `yaml:"origin" env:"ORIGIN"`             // 例如 https://bingo.example.com
	HTTPTimeout int    `yaml:"http_timeout" env:"HTTP_TIMEOUT"` // HTTP 请求超时（秒）
}

// ConnectionConfig 实时通道配置
type ConnectionConfig struct {
	HeartbeatInterval int `yaml:"heartbeat_interval" env:"HEARTBEAT_INTERVAL"` // 心跳间隔（秒）
	HandshakeTimeout  int `yaml:"handshake_timeout" env:"HANDSHAKE_TIMEOUT"`   // 握手超时（秒）
	WriteWait         int `yaml:"write_wait" env:"WRITE_WAIT"`                 // 写超时（秒）
	ReadTimeout       int `yaml:"read_timeout" env:"READ_TIMEOUT"`             // 读超时（秒），0 表示不限
	SendBuffer        int `yaml:"send_buffer" env:"SEND_BUFFER"`               // 发送队列长度
}

// ReconnectConfig 断线重连配置，默认关闭
type ReconnectConfig struct {
	Enabled         bool `yaml:"enabled" env:"ENABLED"`
	InitialInterval int  `yaml:"initial_interval" env:"INITIAL_INTERVAL"` // 首次退避（秒）
	MaxInterval     int  `yaml:"max_interval" env:"MAX_INTERVAL"`         // 最大退避（秒）
	MaxAttempts     int  `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
}

// GameConfig 创建房间时使用的参数
type GameConfig struct {
	Variant        string `yaml:"variant" env:"VARIANT"` // "75" 或 "90"
	CardsPerPlayer int    `yaml:"cards_per_player" env:"CARDS_PER_PLAYER"`
	Pattern        string `yaml:"pattern" env:"PATTERN"`
	AutoDraw       bool   `yaml:"auto_draw" env:"AUTO_DRAW"`
	DrawInterval   int    `yaml:"draw_interval" env:"DRAW_INTERVAL"` // 自动开号间隔（秒）
	AutoMark       bool   `yaml:"auto_mark" env:"AUTO_MARK"`
	QuickPlayDelay int    `yaml:"quick_play_delay" env:"QUICK_PLAY_DELAY"` // 快速开始延迟（毫秒）
}

// PlayerConfig 玩家身份，留空则由宿主提供或生成访客 ID
type PlayerConfig struct {
	ID   string `yaml:"id" env:"ID"`
	Name string `yaml:"name" env:"NAME"`
}

// UIConfig 终端界面配置
type UIConfig struct {
	Sound  bool   `yaml:"sound" env:"SOUND"`
	Theme  string `yaml:"theme" env:"THEME"` // auto/dark/light
	Debug  bool   `yaml:"debug" env:"DEBUG"`
	LogDir string `yaml:"log_dir" env:"LOG_DIR"`
}

// HTTPTimeoutDuration 返回 HTTP 超时时长
func (c *ServerConfig) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// HeartbeatDuration 返回心跳间隔
func (c *ConnectionConfig) HeartbeatDuration() time.Duration {
	return time.Duration(c.HeartbeatInterval) * time.Second
}

// HandshakeDuration 返回握手超时
func (c *ConnectionConfig) HandshakeDuration() time.Duration {
	return time.Duration(c.HandshakeTimeout) * time.Second
}

// WriteWaitDuration 返回写超时
func (c *ConnectionConfig) WriteWaitDuration() time.Duration {
	return time.Duration(c.WriteWait) * time.Second
}

// ReadTimeoutDuration 返回读超时
func (c *ConnectionConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// InitialIntervalDuration 返回首次重连退避
func (c *ReconnectConfig) InitialIntervalDuration() time.Duration {
	return time.Duration(c.InitialInterval) * time.Second
}

// MaxIntervalDuration 返回最大重连退避
func (c *ReconnectConfig) MaxIntervalDuration() time.Duration {
	return time.Duration(c.MaxInterval) * time.Second
}

// QuickPlayDelayDuration 返回快速开始延迟
func (c *GameConfig) QuickPlayDelayDuration() time.Duration {
	return time.Duration(c.QuickPlayDelay) * time.Millisecond
}

// Load 加载配置文件，缺省字段保留默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillZero()

	return cfg, nil
}

// ApplyEnv 读取 .env 文件（可选）后用 BINGO_* 环境变量覆盖配置
func ApplyEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.fillZero()
	return nil
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.Origin)
	if err != nil {
		return fmt.Errorf("server.origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.origin: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("server.origin: missing host")
	}
	if c.Game.Variant != "75" && c.Game.Variant != "90" {
		return fmt.Errorf("game.variant: unsupported variant %q", c.Game.Variant)
	}
	if c.Reconnect.Enabled && c.Reconnect.MaxAttempts <= 0 {
		return errors.New("reconnect.max_attempts must be positive")
	}
	return nil
}

// fillZero 把被显式置零的数值恢复为默认值
func (c *Config) fillZero() {
	d := Default()
	if c.Server.Origin == "" {
		c.Server.Origin = d.Server.Origin
	}
	if c.Server.HTTPTimeout <= 0 {
		c.Server.HTTPTimeout = d.Server.HTTPTimeout
	}
	if c.Connection.HeartbeatInterval <= 0 {
		c.Connection.HeartbeatInterval = d.Connection.HeartbeatInterval
	}
	if c.Connection.HandshakeTimeout <= 0 {
		c.Connection.HandshakeTimeout = d.Connection.HandshakeTimeout
	}
	if c.Connection.WriteWait <= 0 {
		c.Connection.WriteWait = d.Connection.WriteWait
	}
	if c.Connection.SendBuffer <= 0 {
		c.Connection.SendBuffer = d.Connection.SendBuffer
	}
	if c.Reconnect.InitialInterval <= 0 {
		c.Reconnect.InitialInterval = d.Reconnect.InitialInterval
	}
	if c.Reconnect.MaxInterval <= 0 {
		c.Reconnect.MaxInterval = d.Reconnect.MaxInterval
	}
	if c.Game.Variant == "" {
		c.Game.Variant = d.Game.Variant
	}
	if c.Game.CardsPerPlayer <= 0 {
		c.Game.CardsPerPlayer = d.Game.CardsPerPlayer
	}
	if c.Game.Pattern == "" {
		c.Game.Pattern = d.Game.Pattern
	}
	if c.Game.DrawInterval <= 0 {
		c.Game.DrawInterval = d.Game.DrawInterval
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Origin:      "http://localhost:8000",
			HTTPTimeout: 10,
		},
		Connection: ConnectionConfig{
			HeartbeatInterval: 30,
			HandshakeTimeout:  10,
			WriteWait:         10,
			ReadTimeout:       0,
			SendBuffer:        64,
		},
		Reconnect: ReconnectConfig{
			Enabled:         false,
			InitialInterval: 2,
			MaxInterval:     30,
			MaxAttempts:     5,
		},
		Game: GameConfig{
			Variant:        "75",
			CardsPerPlayer: 1,
			Pattern:        "horizontal_line",
			AutoDraw:       true,
			DrawInterval:   5,
			AutoMark:       true,
			QuickPlayDelay: 1000,
		},
		UI: UIConfig{
			Sound: true,
			Theme: "auto",
		},
	}
}
