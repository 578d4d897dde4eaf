// Package config loads database and import settings from the environment.
//
// Configuration is read explicitly through Load* functions and returned as
// plain structs; nothing in this package keeps process-wide state. A required
// variable that is absent is a hard error (MissingError) rather than an empty
// value silently passed into a connection attempt.
//
// Two variable groups exist, one per database:
//
//	REAL_ESTATE_DBNAME, REAL_ESTATE_HOST, REAL_ESTATE_USER,
//	REAL_ESTATE_PASSWORD, REAL_ESTATE_PORT, PATH_TO_CSV
//
//	CLASS_ROSTER_DBNAME, CLASS_ROSTER_HOST, CLASS_ROSTER_USER,
//	CLASS_ROSTER_PASSWORD, CLASS_ROSTER_PORT
package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/viper"
)

// MissingError reports a required environment variable that was not set.
type MissingError struct {
	Var string
}

func (e MissingError) Error() string {
	return fmt.Sprintf("config: required environment variable %s is not set", e.Var)
}

// DB holds the connection settings for one database.
type DB struct {
	Name     string
	Host     string
	User     string
	Password string
	Port     int
}

// DSN returns a postgres:// connection URL suitable for pgx / pgxpool.
// Credentials are URL-escaped.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SQLiteDSN returns a file DSN for the sqlite backend. The database name is
// used as the file name so both backends share one configuration shape.
func (d DB) SQLiteDSN() string {
	return fmt.Sprintf("file:%s.db?_pragma=foreign_keys(1)", d.Name)
}

// LoadRealEstateDB reads the REAL_ESTATE_* variables.
func LoadRealEstateDB() (DB, error) {
	return loadDB("REAL_ESTATE")
}

// LoadRosterDB reads the CLASS_ROSTER_* variables.
func LoadRosterDB() (DB, error) {
	return loadDB("CLASS_ROSTER")
}

// LoadCSVPath reads PATH_TO_CSV, the source file for the property import.
func LoadCSVPath() (string, error) {
	v := newEnv()
	path := v.GetString("PATH_TO_CSV")
	if path == "" {
		return "", MissingError{Var: "PATH_TO_CSV"}
	}
	return path, nil
}

// newEnv returns a viper instance bound to the process environment only.
func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func loadDB(prefix string) (DB, error) {
	v := newEnv()

	get := func(suffix string) (string, error) {
		key := prefix + "_" + suffix
		val := v.GetString(key)
		if val == "" {
			return "", MissingError{Var: key}
		}
		return val, nil
	}

	var (
		db  DB
		err error
	)
	if db.Name, err = get("DBNAME"); err != nil {
		return DB{}, err
	}
	if db.Host, err = get("HOST"); err != nil {
		return DB{}, err
	}
	if db.User, err = get("USER"); err != nil {
		return DB{}, err
	}
	if db.Password, err = get("PASSWORD"); err != nil {
		return DB{}, err
	}
	portStr, err := get("PORT")
	if err != nil {
		return DB{}, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return DB{}, fmt.Errorf("config: %s_PORT %q is not an integer: %w", prefix, portStr, err)
	}
	db.Port = port

	return db, nil
}
