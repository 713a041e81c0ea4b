// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package config

import (
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf
	Auth     AuthConfig     `json:"auth" yaml:"auth"`
	Database DatabaseConfig `json:"database,optional" yaml:"database"`
	Redis    RedisConfig    `json:"redis,optional" yaml:"redis"`
	Reports  ReportsConfig  `json:"reports,optional" yaml:"reports"`
	Seed     []SeedUser     `json:"seed,optional" yaml:"seed"`
}

type AuthConfig struct {
	JWTSecret  string `json:"jwt_secret" yaml:"jwt_secret"`
	Issuer     string `json:"issuer,default=ticketdesk" yaml:"issuer"`
	TokenTTL   string `json:"token_ttl,default=8h" yaml:"token_ttl"`
	PolicyPath string `json:"policy_path,optional" yaml:"policy_path"`
}

type DatabaseConfig struct {
	DSN string `json:"dsn,optional" yaml:"dsn"`
}

type RedisConfig struct {
	URL string `json:"url,optional" yaml:"url"`
}

type ReportsConfig struct {
	StoreURL            string `json:"store_url,optional" yaml:"store_url"`
	StatusPollPerMinute int    `json:"status_poll_per_minute,default=120" yaml:"status_poll_per_minute"`
}

type SeedUser struct {
	Username string   `json:"username" yaml:"username"`
	Password string   `json:"password" yaml:"password"`
	Roles    []string `json:"roles" yaml:"roles"`
}
