package database

import (
	"fmt"
	"net/url"

	"spendwise/internal/config"
)

// Config holds database configuration
type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(app *config.Config) *Config {
	return &Config{
		Host:          app.DBHost,
		Port:          app.DBPort,
		User:          app.DBUser,
		Password:      app.DBPassword,
		DBName:        app.DBName,
		SSLMode:       app.DBSSLMode,
		MigrationsDir: app.MigrationsDir,
	}
}

// DSN returns the PostgreSQL keyword/value connection string used by gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// connection URL used by golang-migrate.
func (c *Config) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		User:   url.UserPassword(c.User, c.Password),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// MigrationsSource returns the golang-migrate file source URL.
func (c *Config) MigrationsSource() string {
	return "file://" + c.MigrationsDir
}
