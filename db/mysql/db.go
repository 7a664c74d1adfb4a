package mysql

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/afterfrag/afterfrag-be/config"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

// MySQLDB implements the storage interfaces on top of an upper/db session.
type MySQLDB struct {
	sess db.Session
}

func GetDatabase(conf *config.Config) (*MySQLDB, error) {
	settings := mysql.ConnectionURL{
		User:     conf.DBUser,
		Password: conf.DBPass,
		Host:     conf.DBHost,
		Database: conf.DBName,
		Options: map[string]string{
			"parseTime": "true",
			"loc":       "UTC",
		},
	}
	sess, err := mysql.Open(settings)
	if err != nil {
		return nil, fmt.Errorf("open mysql session: %w", err)
	}
	return &MySQLDB{sess: sess}, nil
}

func (d *MySQLDB) GetSQLDB() *sql.DB {
	return d.sess.Driver().(*sql.DB)
}

func (d *MySQLDB) Close() error {
	return d.sess.Close()
}

func marshalJSON(value interface{}) (string, error) {
	if value == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(raw), nil
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func unmarshalJSON(raw string, dst interface{}) {
	if raw == "" {
		return
	}
	// Corrupt column contents degrade to the zero value instead of failing
	// the whole read.
	_ = json.Unmarshal([]byte(raw), dst)
}
