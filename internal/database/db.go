package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config carries the connection settings read from the environment.
type Config struct {
	User string
	Pass string
	Host string
	Port string
	Name string

	MaxConns    int           // open and idle connection cap; 0 means 25
	MaxLifetime time.Duration // recycle connections after this long; 0 means 30m
}

// DSN builds the driver connection string. parseTime maps DATETIME to
// time.Time and loc=UTC keeps timestamps consistent across hosts.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Pass
	mc.Net = "tcp"
	mc.Addr = c.Host + ":" + c.Port
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Open connects to MySQL and verifies the connection.
func Open(c Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, err
	}

	conns, life := c.MaxConns, c.MaxLifetime
	if conns <= 0 {
		conns = 25
	}
	if life <= 0 {
		life = 30 * time.Minute
	}
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns)
	db.SetConnMaxLifetime(life)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
