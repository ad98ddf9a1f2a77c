package dbconn

import (
	"fmt"
	"net"
	"net/url"

	"github.com/go-sql-driver/mysql"

	"github.com/dmitrijs2005/gophgallery/internal/server/secrets"
)

// Supported driver names as registered with database/sql.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

const (
	defaultMySQLPort    = "3306"
	defaultPostgresPort = "5432"
)

// BuildDSN renders a driver-specific DSN from a resolved secret.
func BuildDSN(driver string, b *secrets.Bundle, params map[string]string) (string, error) {
	switch driver {
	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = b.Username
		c.Passwd = b.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(b.Host, portOrDefault(b, defaultMySQLPort))
		c.DBName = b.DBName
		c.ParseTime = true
		if len(params) > 0 {
			c.Params = params
		}
		return c.FormatDSN(), nil
	case DriverPostgres:
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(b.Username, b.Password),
			Host:     net.JoinHostPort(b.Host, portOrDefault(b, defaultPostgresPort)),
			Path:     "/" + b.DBName,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func portOrDefault(b *secrets.Bundle, def string) string {
	if b.Port != "" {
		return b.Port.String()
	}
	return def
}
