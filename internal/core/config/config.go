package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type GRPC struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
	GRPC  GRPC `mapstructure:"grpc"`
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// PerIP 单 IP 限速，只作用于 HTTP；RPS <= 0 表示关闭
type PerIP struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int
}

// Limits 同时作用于 HTTP 中间件与 gRPC 拦截器
type Limits struct {
	RPS          float64 `mapstructure:"rps"`
	Burst        int
	PerIP        PerIP `mapstructure:"perIP"`
	Concurrency  int64
	MaxBodyBytes int64
	TimeoutSec   int
}

type Stream struct {
	PaceIntervalMs int
}

type Registry struct {
	Seed bool
}

type Config struct {
	App      App
	Log      Log
	Limits   Limits
	Stream   Stream
	Registry Registry
}

func (s Stream) PaceInterval() time.Duration {
	return time.Duration(s.PaceIntervalMs) * time.Millisecond
}

func (l Limits) Timeout() time.Duration {
	return time.Duration(l.TimeoutSec) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-directory")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 0) // SSE 长连接，不设写超时
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.grpc.host", "0.0.0.0")
	v.SetDefault("app.grpc.port", 9090)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxSizeMB", 100)
	v.SetDefault("log.rotate.maxBackups", 7)
	v.SetDefault("log.rotate.maxAgeDays", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.perIP.rps", 50)
	v.SetDefault("limits.perIP.burst", 100)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxBodyBytes", 16<<20)
	v.SetDefault("limits.timeoutSec", 10)

	v.SetDefault("stream.paceIntervalMs", 1000)
	v.SetDefault("registry.seed", true)
}

// LoadE 读取配置；path 为空且默认文件不存在时只用默认值 + 环境变量
func LoadE(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = defaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	c, err := LoadE(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}
