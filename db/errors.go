package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// IsDupKeyErr reports whether err is a MySQL duplicate-key violation.
func IsDupKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == 1062 || strings.Contains(mysqlErr.Error(), "Duplicate")
}
