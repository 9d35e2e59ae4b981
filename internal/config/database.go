// internal/config/database.go
package config

import (
	"fmt"
)

// Record Store backends selectable through DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int // in seconds
	LogLevel     string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

func (d *DatabaseConfig) IsMemory() bool {
	return d.Driver == DriverMemory
}

func (d *DatabaseConfig) validate(production bool) error {
	switch d.Driver {
	case DriverPostgres:
		if d.Password == "" && production {
			return fmt.Errorf("database password is required in production")
		}
	case DriverMemory:
		if production {
			return fmt.Errorf("memory database driver is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}
	return nil
}
