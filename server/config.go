package server

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RoomConfig 房间运行参数（计时相关），所有房间共享一份默认值
type RoomConfig struct {
	GridSize          int
	CountdownFrom     int
	CountdownInterval time.Duration
	TickInterval      time.Duration
}

// Config 进程级配置：命令行参数优先，其次环境变量（可来自 .env），最后默认值
type Config struct {
	Addr      string
	StaticDir string
	LogFile   string
	LogLevel  string
	LogStderr bool

	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration

	Room RoomConfig
}

// DefaultRoomConfig 参考行为：20×20 棋盘，3 秒倒计时，100ms 一个 Tick
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		GridSize:          GridSize,
		CountdownFrom:     3,
		CountdownInterval: time.Second,
		TickInterval:      100 * time.Millisecond,
	}
}

func DefaultConfig() Config {
	return Config{
		Addr:              ":3000",
		StaticDir:         "public",
		LogFile:           "snakeroom.log",
		LogLevel:          "info",
		HeartbeatInterval: 5 * time.Second,
		HeartbeatTimeout:  10 * time.Second,
		Room:              DefaultRoomConfig(),
	}
}

// LoadConfig 解析配置。envFile 不存在时忽略；args 通常为 os.Args[1:]
func LoadConfig(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := DefaultConfig()
	fs := flag.NewFlagSet("snakeroom", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", envString("SNAKEROOM_ADDR", cfg.Addr), "server listen address, e.g. :3000")
	fs.StringVar(&cfg.StaticDir, "static", envString("SNAKEROOM_STATIC", cfg.StaticDir), "directory served at /")
	fs.StringVar(&cfg.LogFile, "log-file", envString("SNAKEROOM_LOG_FILE", cfg.LogFile), "rolling log file path")
	fs.StringVar(&cfg.LogLevel, "log-level", envString("SNAKEROOM_LOG_LEVEL", cfg.LogLevel), "debug, info, warn or error")
	fs.BoolVar(&cfg.LogStderr, "log-stderr", envBool("SNAKEROOM_LOG_STDERR", cfg.LogStderr), "also log to stderr")
	fs.DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", envDuration("SNAKEROOM_HEARTBEAT_INTERVAL", cfg.HeartbeatInterval), "ping interval")
	fs.DurationVar(&cfg.HeartbeatTimeout, "heartbeat-timeout", envDuration("SNAKEROOM_HEARTBEAT_TIMEOUT", cfg.HeartbeatTimeout), "disconnect after this long without pong")
	fs.DurationVar(&cfg.Room.TickInterval, "tick", envDuration("SNAKEROOM_TICK", cfg.Room.TickInterval), "simulation tick period")
	fs.DurationVar(&cfg.Room.CountdownInterval, "countdown-step", envDuration("SNAKEROOM_COUNTDOWN_STEP", cfg.Room.CountdownInterval), "countdown step period")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Room.TickInterval <= 0 || c.Room.CountdownInterval <= 0 {
		return fmt.Errorf("tick and countdown periods must be positive")
	}
	if c.HeartbeatInterval <= 0 || c.HeartbeatTimeout < c.HeartbeatInterval {
		return fmt.Errorf("heartbeat timeout (%s) must be at least the interval (%s)", c.HeartbeatTimeout, c.HeartbeatInterval)
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
