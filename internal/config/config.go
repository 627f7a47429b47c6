package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	StoreDriver string   `mapstructure:"STORE_DRIVER"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Practitioner auth. The server is single-user: one password, one token
	// subject.
	AuthSecret   string `mapstructure:"AUTH_SECRET"`
	AuthPassword string `mapstructure:"AUTH_PASSWORD"`

	// Letterhead defaults for the prescription document.
	ClinicName          string `mapstructure:"CLINIC_NAME"`
	ClinicAddress       string `mapstructure:"CLINIC_ADDRESS"`
	ClinicContact       string `mapstructure:"CLINIC_CONTACT"`
	DoctorName          string `mapstructure:"DOCTOR_NAME"`
	DoctorQualification string `mapstructure:"DOCTOR_QUALIFICATION"`
	DoctorRegistration  string `mapstructure:"DOCTOR_REGISTRATION"`
	PrintLocale         string `mapstructure:"PRINT_LOCALE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CLINIC_NAME", "Rakshanam Ayurveda Hospital")
	v.SetDefault("CLINIC_ADDRESS", "481331")
	v.SetDefault("CLINIC_CONTACT", "+91-8827711661")
	v.SetDefault("DOCTOR_NAME", "Dr. Gaurav Puri")
	v.SetDefault("DOCTOR_QUALIFICATION", "(B.A.M.S) Ayurveda")
	v.SetDefault("DOCTOR_REGISTRATION", "Registration Number: 60599")
	v.SetDefault("PRINT_LOCALE", "hi")

	for _, key := range []string{
		"PORT", "ENV", "STORE_DRIVER", "DATABASE_URL", "DB_MAX_CONNS",
		"DB_MIN_CONNS", "CORS_ORIGINS", "AUTH_SECRET", "AUTH_PASSWORD",
		"CLINIC_NAME", "CLINIC_ADDRESS", "CLINIC_CONTACT",
		"DOCTOR_NAME", "DOCTOR_QUALIFICATION", "DOCTOR_REGISTRATION",
		"PRINT_LOCALE",
	} {
		v.BindEnv(key)
	}

	// .env is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The postgres driver
// needs a connection string, and outside development the practitioner login
// must be configured so the API is not left open.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			DriverMemory, DriverPostgres, c.StoreDriver)
	}
	if c.StoreDriver == DriverPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", DriverPostgres)
	}
	if !c.IsDev() {
		if c.AuthSecret == "" {
			return fmt.Errorf("AUTH_SECRET is required when ENV is %q", c.Env)
		}
		if c.AuthPassword == "" {
			return fmt.Errorf("AUTH_PASSWORD is required when ENV is %q", c.Env)
		}
	}
	if c.PrintLocale != "hi" && c.PrintLocale != "en" {
		return fmt.Errorf("PRINT_LOCALE must be \"hi\" or \"en\", got %q", c.PrintLocale)
	}
	return nil
}
