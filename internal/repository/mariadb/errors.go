package mariadb

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const errDupEntry = 1062

// IsUniqueViolation reports whether err is a duplicate-key error on the
// named unique key. MariaDB reports the key as 'name' and MySQL 8 as
// 'table.name'; both forms match.
func IsUniqueViolation(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != errDupEntry {
		return false
	}
	i := strings.LastIndex(me.Message, "for key '")
	if i < 0 {
		return false
	}
	name := strings.TrimSuffix(me.Message[i+len("for key '"):], "'")
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	return name == key
}
