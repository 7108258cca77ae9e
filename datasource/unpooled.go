// Package datasource implements the unpooled source: it builds one fresh
// physical connection per request and applies the configured session
// settings, with no borrow/return bookkeeping of its own. The pool
// package uses it as the factory for brand-new physical connections.
package datasource

import (
	"context"
	"strings"

	"pooldb"
	"pooldb/driver"
)

// Source builds unpooled physical connections against a single
// configured driver/URL.
type Source struct {
	Gateway *driver.Gateway
	Config  pooldb.DriverConfig
	Dialect driver.Dialect
}

// New returns a Source. The caller is responsible for having registered
// config.Driver with gateway (see driver.Gateway.RegisterDriver) before
// calling Open.
func New(gateway *driver.Gateway, config pooldb.DriverConfig, dialect driver.Dialect) *Source {
	return &Source{Gateway: gateway, Config: config, Dialect: dialect}
}

// Open builds the connection URL's property bag from Config.Properties,
// overlaying username/password if provided, then asks the gateway for a
// connection and applies network timeout, auto-commit, and isolation in
// that order, exactly as spec.md §4.B specifies.
func (s *Source) Open(ctx context.Context, username, password string) (*driver.PhysicalConn, error) {
	user, pass := s.Config.Username, s.Config.Password
	if username != "" {
		user = username
	}
	if password != "" {
		pass = password
	}
	dsn := s.dsn(user, pass)

	rawConn, err := s.Gateway.Open(s.Config.Driver, dsn)
	if err != nil {
		return nil, pooldb.NewError(pooldb.KindConnectionOpen, "datasource.Source.Open", err)
	}
	pc := driver.NewPhysicalConn(rawConn, s.Dialect)

	if s.Config.DefaultNetworkTimeout > 0 {
		if err := pc.SetNetworkTimeout(s.Config.DefaultNetworkTimeout); err != nil {
			_ = pc.Close()
			return nil, pooldb.NewError(pooldb.KindConnectionOpen, "datasource.Source.Open", err)
		}
	}
	if s.Config.AutoCommit != nil {
		current, err := pc.AutoCommit()
		if err != nil {
			_ = pc.Close()
			return nil, pooldb.NewError(pooldb.KindConnectionOpen, "datasource.Source.Open", err)
		}
		if current != *s.Config.AutoCommit {
			if err := pc.SetAutoCommit(*s.Config.AutoCommit); err != nil {
				_ = pc.Close()
				return nil, pooldb.NewError(pooldb.KindConnectionOpen, "datasource.Source.Open", err)
			}
		}
	}
	if s.Config.DefaultTransactionIsolationLevel != pooldb.IsolationNone {
		if err := pc.SetIsolation(s.Config.DefaultTransactionIsolationLevel); err != nil {
			_ = pc.Close()
			return nil, pooldb.NewError(pooldb.KindConnectionOpen, "datasource.Source.Open", err)
		}
	}
	return pc, nil
}

// dsn renders the configured URL with user/password and driver
// properties layered on as query parameters, which is how every one of
// the four wired drivers accepts out-of-band connection options.
func (s *Source) dsn(user, pass string) string {
	var b strings.Builder
	b.WriteString(s.Config.URL)
	sep := "?"
	if strings.Contains(s.Config.URL, "?") {
		sep = "&"
	}
	if user != "" {
		b.WriteString(sep)
		b.WriteString("user=")
		b.WriteString(user)
		sep = "&"
	}
	if pass != "" {
		b.WriteString(sep)
		b.WriteString("password=")
		b.WriteString(pass)
		sep = "&"
	}
	for k, v := range s.Config.Properties {
		b.WriteString(sep)
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(v)
		sep = "&"
	}
	return b.String()
}
