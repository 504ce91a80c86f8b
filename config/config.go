package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig holds process-level settings.
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host           string `yaml:"host" json:"host"`
	Port           int    `yaml:"port" json:"port"`
	JwtSecret      string `yaml:"jwt_secret" json:"jwt_secret"`
	JwtExpireHours int    `yaml:"jwt_expire_hours" json:"jwt_expire_hours"`
	RequestTimeout int    `yaml:"request_timeout" json:"request_timeout"` // seconds
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ChocoCraft",
		Location: "Asia/Kolkata",
		Workdir:  "/var/chococraft",
		Debug:    true,
	},
	Web: WebConfig{
		Host:           "0.0.0.0",
		Port:           1816,
		JwtSecret:      "9b6de5cc-0731-1203-xxtx-0f568ac9da37",
		JwtExpireHours: 24,
		RequestTimeout: 30,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "chococraft",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/chococraft/chococraft.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p := cast.ToInt64(evalue)
	if p > 0 {
		f(p)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

// LoadConfig reads the YAML config file when present and applies
// CHOCOCRAFT_* environment overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	appcfg := DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err == nil {
				_ = yaml.Unmarshal(data, appcfg)
			}
		}
	}

	setEnvValue("CHOCOCRAFT_SYSTEM_WORKDIR", func(v string) { appcfg.System.Workdir = v })
	setEnvValue("CHOCOCRAFT_SYSTEM_LOCATION", func(v string) { appcfg.System.Location = v })
	setEnvBoolValue("CHOCOCRAFT_SYSTEM_DEBUG", func(v bool) { appcfg.System.Debug = v })

	setEnvValue("CHOCOCRAFT_WEB_HOST", func(v string) { appcfg.Web.Host = v })
	setEnvInt64Value("CHOCOCRAFT_WEB_PORT", func(v int64) { appcfg.Web.Port = int(v) })
	setEnvValue("CHOCOCRAFT_WEB_JWT_SECRET", func(v string) { appcfg.Web.JwtSecret = v })
	setEnvInt64Value("CHOCOCRAFT_WEB_REQUEST_TIMEOUT", func(v int64) { appcfg.Web.RequestTimeout = int(v) })

	setEnvValue("CHOCOCRAFT_DB_TYPE", func(v string) { appcfg.Database.Type = v })
	setEnvValue("CHOCOCRAFT_DB_HOST", func(v string) { appcfg.Database.Host = v })
	setEnvInt64Value("CHOCOCRAFT_DB_PORT", func(v int64) { appcfg.Database.Port = int(v) })
	setEnvValue("CHOCOCRAFT_DB_NAME", func(v string) { appcfg.Database.Name = v })
	setEnvValue("CHOCOCRAFT_DB_USER", func(v string) { appcfg.Database.User = v })
	setEnvValue("CHOCOCRAFT_DB_PWD", func(v string) { appcfg.Database.Passwd = v })

	setEnvValue("CHOCOCRAFT_LOGGER_MODE", func(v string) { appcfg.Logger.Mode = v })
	setEnvBoolValue("CHOCOCRAFT_LOGGER_FILE_ENABLE", func(v bool) { appcfg.Logger.FileEnable = v })
	setEnvValue("CHOCOCRAFT_LOGGER_FILENAME", func(v string) { appcfg.Logger.Filename = v })

	return appcfg
}
