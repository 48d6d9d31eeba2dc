package adapter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/leapstack-labs/inspectomop/pkg/core"
)

// MemoryPath is the path used for in-memory file databases.
const MemoryPath = ":memory:"

// dialectAliases maps URL scheme dialect names to registered adapter types.
var dialectAliases = map[string]string{
	"postgresql": "postgres",
	"pgx":        "postgres",
	"sqlite3":    "sqlite",
	"mariadb":    "mysql",
}

// IsFileDialect reports whether the adapter type addresses a local database file.
func IsFileDialect(typ string) bool {
	return typ == "sqlite" || typ == "duckdb"
}

// ParseURL parses a connection URL of the form
// dialect[+driver]://username:password@host:port/database into an adapter config.
//
// File databases follow the three-slash convention:
// sqlite:///relative.db, sqlite:////abs/path.db, and sqlite:///:memory:
// (or just sqlite://) for an in-memory database.
func ParseURL(raw string) (core.AdapterConfig, error) {
	var cfg core.AdapterConfig

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return cfg, fmt.Errorf("invalid connection url %q: expected dialect://", raw)
	}

	typ, driver, _ := strings.Cut(strings.ToLower(scheme), "+")
	if alias, ok := dialectAliases[typ]; ok {
		typ = alias
	}
	cfg.Type = typ
	cfg.Driver = driver

	if IsFileDialect(typ) {
		return parseFileURL(cfg, rest)
	}
	return parseNetworkURL(cfg, raw)
}

func parseFileURL(cfg core.AdapterConfig, rest string) (core.AdapterConfig, error) {
	path, query, _ := strings.Cut(rest, "?")
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return cfg, fmt.Errorf("invalid connection url options: %w", err)
		}
		cfg.Options = flattenQuery(values)
	}

	// The first slash separates the (empty) host from the path.
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		path = MemoryPath
	}
	cfg.Path = path
	cfg.Database = path
	return cfg, nil
}

func parseNetworkURL(cfg core.AdapterConfig, raw string) (core.AdapterConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return cfg, fmt.Errorf("invalid connection url: %w", err)
	}

	cfg.Host = u.Hostname()
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return cfg, fmt.Errorf("invalid port %q in connection url", p)
		}
		cfg.Port = port
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	cfg.Database = strings.TrimPrefix(u.Path, "/")

	values := u.Query()
	if schema := values.Get("schema"); schema != "" {
		cfg.Schema = schema
		values.Del("schema")
	}
	if len(values) > 0 {
		cfg.Options = flattenQuery(values)
	}
	return cfg, nil
}

func flattenQuery(values url.Values) map[string]string {
	opts := make(map[string]string, len(values))
	for k := range values {
		opts[k] = values.Get(k)
	}
	return opts
}

// RedactURL hides the password of a connection URL for logs and history.
func RedactURL(raw string) string {
	scheme, _, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	typ, _, _ := strings.Cut(strings.ToLower(scheme), "+")
	if IsFileDialect(typ) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
