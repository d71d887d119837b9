package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig PostgreSQL 连接（STORE_BACKEND=postgres 时使用）
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// RedisConfig 集合整读整写，值可能较大，超时单独可配
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MQTTConfig 血缘事件发布
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// GetDSN 生成 postgres:// 形式的连接串，用户名、密码中的特殊字符会被转义
func (c *DatabaseConfig) GetDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// LoadFromEnv prefix 如 "DB"：DB_HOST、DB_PORT、DB_NAME、DB_CONN_MAX_LIFETIME(秒) ...
func (c *DatabaseConfig) LoadFromEnv(prefix string) {
	bindEnv(prefix, map[string]func(string){
		"HOST":              setString(&c.Host),
		"PORT":              setInt(&c.Port),
		"USER":              setString(&c.User),
		"PASSWORD":          setString(&c.Password),
		"NAME":              setString(&c.Database),
		"SSLMODE":           setString(&c.SSLMode),
		"MAX_CONNS":         setInt(&c.MaxConns),
		"MAX_IDLE":          setInt(&c.MaxIdle),
		"CONN_MAX_LIFETIME": setSeconds(&c.ConnMaxLifetime),
	})
}

func (c *RedisConfig) LoadFromEnv(prefix string) {
	bindEnv(prefix, map[string]func(string){
		"ADDR":          setString(&c.Addr),
		"PASSWORD":      setString(&c.Password),
		"DB":            setInt(&c.DB),
		"DIAL_TIMEOUT":  setSeconds(&c.DialTimeout),
		"READ_TIMEOUT":  setSeconds(&c.ReadTimeout),
		"WRITE_TIMEOUT": setSeconds(&c.WriteTimeout),
	})
}

func (c *MQTTConfig) LoadFromEnv(prefix string) {
	bindEnv(prefix, map[string]func(string){
		"BROKER":    setString(&c.Broker),
		"CLIENT_ID": setString(&c.ClientID),
		"USERNAME":  setString(&c.Username),
		"PASSWORD":  setString(&c.Password),
		"QOS": func(v string) {
			if q, err := strconv.Atoi(v); err == nil && q >= 0 && q <= 2 {
				c.QoS = byte(q)
			}
		},
	})
}

// bindEnv 只处理非空变量；无法解析的值保留原默认值
func bindEnv(prefix string, fields map[string]func(string)) {
	for suffix, set := range fields {
		if v := os.Getenv(prefix + "_" + suffix); v != "" {
			set(v)
		}
	}
}

func setString(dst *string) func(string) {
	return func(v string) { *dst = v }
}

func setInt(dst *int) func(string) {
	return func(v string) {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setSeconds(dst *time.Duration) func(string) {
	return func(v string) {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			*dst = time.Duration(s) * time.Second
		}
	}
}
