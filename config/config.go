package config

import (
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type"` // sqlite or postgres
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig read api config
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig logger config
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// DefaultAnchorDate ends both date windows unless configured otherwise, so a
// given seed yields the same dataset on every day.
const DefaultAnchorDate = "2025-12-31"

// GeneratorConfig dataset sizes and windows. AnchorDate "today" (or empty)
// ends the windows at the current day and gives up day-to-day reproducibility.
type GeneratorConfig struct {
	Seed             int64  `yaml:"seed"`
	Customers        int    `yaml:"customers"`
	Products         int    `yaml:"products"`
	Orders           int    `yaml:"orders"`
	OrderItems       int    `yaml:"order_items"`
	SignupWindowDays int    `yaml:"signup_window_days"`
	OrderWindowDays  int    `yaml:"order_window_days"`
	PaymentLagDays   int    `yaml:"payment_lag_days"`
	AnchorDate       string `yaml:"anchor_date"`
	BatchSize        int    `yaml:"batch_size"`
}

// ExportConfig file outputs. An empty Dir means <workdir>/data.
type ExportConfig struct {
	Dir  string `yaml:"dir"`
	CSV  bool   `yaml:"csv"`
	XLSX bool   `yaml:"xlsx"`
}

// AuditConfig store integrity audit schedule
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system"`
	Database  DBConfig        `yaml:"database"`
	Logger    LogConfig       `yaml:"logger"`
	Web       WebConfig       `yaml:"web"`
	Generator GeneratorConfig `yaml:"generator"`
	Export    ExportConfig    `yaml:"export"`
	Audit     AuditConfig     `yaml:"audit"`
}

func (c *AppConfig) GetDataDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

// GetLogFile is Logger.Filename, or shopgen.log in the log dir when unset.
func (c *AppConfig) GetLogFile() string {
	if c.Logger.Filename != "" {
		return c.Logger.Filename
	}
	return path.Join(c.GetLogDir(), "shopgen.log")
}

func (c *AppConfig) GetReportDir() string {
	return path.Join(c.System.Workdir, "reports")
}

// GetLedgerFile is the bbolt file holding the run history.
func (c *AppConfig) GetLedgerFile() string {
	return path.Join(c.System.Workdir, "runs.db")
}

func (c *AppConfig) initDirs() error {
	for _, dir := range []string{c.GetDataDir(), c.GetLogDir(), c.GetReportDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create dir %s", dir)
		}
	}
	return nil
}

// DefaultAppConfig is the configuration used when no file is given.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "ShopGen",
			Location: "UTC",
			Workdir:  "/var/shopgen",
		},
		Database: DBConfig{
			Type:     "sqlite",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "ecommerce.db",
			User:     "postgres",
			Passwd:   "postgres",
			MaxConn:  20,
			IdleConn: 5,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: true,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Generator: GeneratorConfig{
			Seed:             42,
			Customers:        2000,
			Products:         600,
			Orders:           4000,
			OrderItems:       10000,
			SignupWindowDays: 3 * 365,
			OrderWindowDays:  3 * 365,
			PaymentLagDays:   7,
			AnchorDate:       DefaultAnchorDate,
			BatchSize:        500,
		},
		Export: ExportConfig{
			CSV:  true,
			XLSX: false,
		},
		Audit: AuditConfig{
			Enabled: true,
			Cron:    "@every 1h",
		},
	}
}

// LoadConfig reads cfile over the defaults and applies SHOPGEN_* environment
// overrides. An empty cfile falls back to ./shopgen.yml when it exists.
func LoadConfig(cfile string) (*AppConfig, error) {
	if cfile == "" {
		cfile = "shopgen.yml"
		if _, err := os.Stat(cfile); err != nil {
			cfile = ""
		}
	}
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// Prepare creates the data, log and report directories.
func (c *AppConfig) Prepare() error {
	return c.initDirs()
}

// Save writes the config as YAML.
func (c *AppConfig) Save(file string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(os.WriteFile(file, data, 0o644), "write config %s", file)
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			*val = n
		}
	}
}

func setEnvInt64Value(name string, val *int64) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if n, err := cast.ToInt64E(v); err == nil {
			*val = n
		}
	}
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("SHOPGEN_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("SHOPGEN_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("SHOPGEN_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("SHOPGEN_DB_TYPE", &cfg.Database.Type)
	setEnvValue("SHOPGEN_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("SHOPGEN_DB_PORT", &cfg.Database.Port)
	setEnvValue("SHOPGEN_DB_NAME", &cfg.Database.Name)
	setEnvValue("SHOPGEN_DB_USER", &cfg.Database.User)
	setEnvValue("SHOPGEN_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("SHOPGEN_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("SHOPGEN_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("SHOPGEN_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("SHOPGEN_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvValue("SHOPGEN_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("SHOPGEN_WEB_PORT", &cfg.Web.Port)

	setEnvInt64Value("SHOPGEN_SEED", &cfg.Generator.Seed)
	setEnvIntValue("SHOPGEN_CUSTOMERS", &cfg.Generator.Customers)
	setEnvIntValue("SHOPGEN_PRODUCTS", &cfg.Generator.Products)
	setEnvIntValue("SHOPGEN_ORDERS", &cfg.Generator.Orders)
	setEnvIntValue("SHOPGEN_ORDER_ITEMS", &cfg.Generator.OrderItems)
	setEnvValue("SHOPGEN_ANCHOR_DATE", &cfg.Generator.AnchorDate)
	setEnvIntValue("SHOPGEN_BATCH_SIZE", &cfg.Generator.BatchSize)

	setEnvValue("SHOPGEN_EXPORT_DIR", &cfg.Export.Dir)
	setEnvBoolValue("SHOPGEN_EXPORT_CSV", &cfg.Export.CSV)
	setEnvBoolValue("SHOPGEN_EXPORT_XLSX", &cfg.Export.XLSX)

	setEnvBoolValue("SHOPGEN_AUDIT_ENABLED", &cfg.Audit.Enabled)
	setEnvValue("SHOPGEN_AUDIT_CRON", &cfg.Audit.Cron)
}
