package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation (error 1062) so repositories can surface unique-index hits
// as typed conflicts instead of opaque driver errors.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
