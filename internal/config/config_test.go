package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "secret",
			Name:     "landedcost_db",
			SSLMode:  "disable",
		},
		Valuation: ValuationConfig{
			Username:  "svc-user",
			Password:  "svc-pass",
			CompanyID: 7654321,
		},
		Optimizer: OptimizerConfig{Workers: 5},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingValuationCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Valuation.Username = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Valuation.Password = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Valuation.CompanyID = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingDatabasePassword(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_NonPositiveWorkers(t *testing.T) {
	cfg := validConfig()
	cfg.Optimizer.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	db := &DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		Username: "app",
		Password: "p@ss/word",
		Name:     "landedcost_db",
		SSLMode:  "require",
	}

	dsn := db.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.example.com:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped.
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestValuationTimeout(t *testing.T) {
	cfg := &ValuationConfig{TimeoutSeconds: 30}
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestParseCommaSeparated(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, parseCommaSeparated("a, b ,c"))
	assert.Equal(t, []string{}, parseCommaSeparated(""))
	assert.Equal(t, []string{"x"}, parseCommaSeparated("x,,"))
}
