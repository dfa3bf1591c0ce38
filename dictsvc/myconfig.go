package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	regexp "github.com/wasilibs/go-re2"

	"gendict/utils"
)

const (
	DEFAULT_PORT        = 3000
	DEFAULT_MAX_RECORDS = 100000
	DEFAULT_TIMEOUT     = 30 // seconds
	DEFAULT_TABLE       = "person"
	DEFAULT_KEY_PREFIX  = "person"
	DEFAULT_BUCKET      = "gendict"
)

var tableRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type DBConfig struct {
	Enable       bool     `toml:"enable" json:"enable"`
	Dbtype       string   `toml:"dbtype" json:"dbtype"`
	MaxOpenConns int      `toml:"maxopenconns" json:"maxopenconns"`
	MaxIdleConns int      `toml:"maxidleconns" json:"maxidleconns"`
	MaxIdleTime  string   `toml:"maxidletime" json:"maxidletime"`
	Dsn          []string `toml:"dsn" json:"-"`
	Table        string   `toml:"table" json:"table"`
	Timeout      uint     `toml:"timeout" json:"timeout"`
}

type MinioConfig struct {
	Enable   bool   `toml:"enable" json:"enable"`
	Addr     string `toml:"addr" json:"addr"`
	User     string `toml:"user" json:"user"`
	Password string `toml:"password" json:"-"`
	Ssl      bool   `toml:"ssl" json:"ssl"`
	Bucket   string `toml:"bucket" json:"bucket"`
	Timeout  uint   `toml:"timeout" json:"timeout"`
}

type RedisConfig struct {
	Enable    bool   `toml:"enable" json:"enable"`
	Addr      string `toml:"addr" json:"addr"`
	Password  string `toml:"password" json:"-"`
	Db        uint   `toml:"db" json:"db"`
	Protocol  int    `toml:"protocol" json:"protocol"`
	KeyPrefix string `toml:"key_prefix" json:"key_prefix"`
	Timeout   uint   `toml:"timeout" json:"timeout"`
}

type CacheConfig struct {
	Expiration string `toml:"expiration" json:"expiration"`
	Cleanup    string `toml:"cleanup" json:"cleanup"`
}

type LogConfig struct {
	Level         string `toml:"level" json:"level"`
	Path          string `toml:"path" json:"path"`
	Filename      string `toml:"filename" json:"filename"`
	Rotate_files  uint   `toml:"rotate_files" json:"rotate_files"`
	Rotate_mbytes uint   `toml:"rotate_mbytes" json:"rotate_mbytes"`
}

type MyConfig struct {
	Filename string    `toml:"filename" json:"filename"`
	LoadTime time.Time `toml:"load_time" json:"load_time"`

	Version    string `toml:"version" json:"version"`
	Host       string `toml:"host" json:"host"`
	Port       uint   `toml:"port" json:"port"`
	SslEnable  bool   `toml:"ssl_enable" json:"ssl_enable"`
	CertFile   string `toml:"cert_file" json:"cert_file"`
	KeyFile    string `toml:"key_file" json:"key_file"`
	MaxRecords int    `toml:"max_records" json:"max_records"`
	TmpDir     string `toml:"tmp_dir" json:"tmp_dir"`

	CacheConfig CacheConfig `toml:"cache" json:"cache"`
	MysqlConfig DBConfig    `toml:"mysql" json:"mysql"`
	PgConfig    DBConfig    `toml:"postgresql" json:"postgresql"`
	CkConfig    DBConfig    `toml:"clickhouse" json:"clickhouse"`
	RedisConfig RedisConfig `toml:"redis" json:"redis"`
	MinioConfig MinioConfig `toml:"minio" json:"minio"`
	LogConfig   LogConfig   `toml:"log" json:"log"`
}

func (p *MyConfig) Dump() []byte {
	b, _ := json.MarshalIndent(p, "", " ")
	return b
}

func LoadConfig(filename string) (*MyConfig, error) {
	if !utils.ExistedOrCopy(filename, filename+".tpl") {
		return nil, fmt.Errorf("config file [%s] or template file are not found", filename)
	}

	myconfig := &MyConfig{
		Filename: filename,
		LoadTime: time.Now(),
	}
	_, err := toml.DecodeFile(filename, myconfig)
	if err != nil {
		return nil, fmt.Errorf("config file [%s] unmarshal toml failed: %s", filename, err)
	}

	if err = myconfig.setDefaults(); err != nil {
		return nil, fmt.Errorf("config file [%s] invalid: %w", filename, err)
	}
	return myconfig, nil
}

func (p *MyConfig) setDefaults() error {
	if p.Port == 0 {
		p.Port = DEFAULT_PORT
	}
	if p.MaxRecords <= 0 {
		p.MaxRecords = DEFAULT_MAX_RECORDS
	}
	if p.CacheConfig.Expiration == "" {
		p.CacheConfig.Expiration = "5m"
	}
	if p.CacheConfig.Cleanup == "" {
		p.CacheConfig.Cleanup = "10m"
	}
	if _, err := time.ParseDuration(p.CacheConfig.Expiration); err != nil {
		return fmt.Errorf("cache.expiration: %w", err)
	}
	if _, err := time.ParseDuration(p.CacheConfig.Cleanup); err != nil {
		return fmt.Errorf("cache.cleanup: %w", err)
	}

	for name, db := range map[string]*DBConfig{
		"mysql":      &p.MysqlConfig,
		"postgresql": &p.PgConfig,
		"clickhouse": &p.CkConfig,
	} {
		if db.Dbtype == "" {
			db.Dbtype = name
		}
		if db.Table == "" {
			db.Table = DEFAULT_TABLE
		}
		if db.MaxIdleTime == "" {
			db.MaxIdleTime = "5m"
		}
		if db.Timeout == 0 {
			db.Timeout = DEFAULT_TIMEOUT
		}
		if !tableRegex.MatchString(db.Table) {
			return fmt.Errorf("%s.table '%s' is not a valid identifier", name, db.Table)
		}
		if db.Enable && len(db.Dsn) == 0 {
			return fmt.Errorf("%s is enabled without dsn", name)
		}
	}

	if p.RedisConfig.KeyPrefix == "" {
		p.RedisConfig.KeyPrefix = DEFAULT_KEY_PREFIX
	}
	if p.RedisConfig.Protocol == 0 {
		p.RedisConfig.Protocol = 3
	}
	if p.RedisConfig.Timeout == 0 {
		p.RedisConfig.Timeout = DEFAULT_TIMEOUT
	}
	if p.MinioConfig.Bucket == "" {
		p.MinioConfig.Bucket = DEFAULT_BUCKET
	}
	if p.MinioConfig.Timeout == 0 {
		p.MinioConfig.Timeout = DEFAULT_TIMEOUT
	}
	if p.LogConfig.Level == "" {
		p.LogConfig.Level = "info"
	}
	if p.LogConfig.Filename == "" {
		p.LogConfig.Filename = "dictsvc.log"
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
