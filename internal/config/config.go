package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	AccountService IntegrationConfig `toml:"account_service"`
	CatalogService IntegrationConfig `toml:"catalog_service"`
	VehicleService IntegrationConfig `toml:"vehicle_service"`
	Slots          SlotsConfig       `toml:"slots"`
	WorkOrders     WorkOrdersConfig  `toml:"workorders"`
	VNPay          VNPayConfig       `toml:"vnpay"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN собирает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// SlotsConfig настройки слотов записи
type SlotsConfig struct {
	DefaultCapacity        int `toml:"default_capacity"`
	DefaultDurationMinutes int `toml:"default_duration_minutes"`
}

// WorkOrdersConfig настройки заказ-нарядов
type WorkOrdersConfig struct {
	// MaxActiveWorkOrders лимит незавершенных заказ-нарядов на одного механика.
	// Отсутствие ключа дает лимит по умолчанию, явный 0 отключает проверку.
	MaxActiveWorkOrders *int `toml:"max_active_workorders"`
}

// VNPayConfig настройки платежного шлюза VNPay
type VNPayConfig struct {
	TmnCode            string `toml:"tmn_code"`
	HashSecret         string `toml:"hash_secret"`
	PayURL             string `toml:"pay_url"`
	ReturnURL          string `toml:"return_url"`
	SuccessRedirectURL string `toml:"success_redirect_url"`
	FailRedirectURL    string `toml:"fail_redirect_url"`
	ExpireMinutes      int    `toml:"expire_minutes"`
}

// Load читает конфигурацию из TOML файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if cfg.VNPay.HashSecret == "" {
		return nil, fmt.Errorf("config: vnpay.hash_secret is required")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8083
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "maintenance-service"
	}
	if cfg.Slots.DefaultCapacity == 0 {
		cfg.Slots.DefaultCapacity = 4
	}
	if cfg.Slots.DefaultDurationMinutes == 0 {
		cfg.Slots.DefaultDurationMinutes = 60
	}
	if cfg.WorkOrders.MaxActiveWorkOrders == nil {
		maxActive := 5
		cfg.WorkOrders.MaxActiveWorkOrders = &maxActive
	}
	if cfg.VNPay.ExpireMinutes == 0 {
		cfg.VNPay.ExpireMinutes = 15
	}
}
