/*
 * @Author:    thepoy
 * @File Name: dialects.go
 */

package store

import (
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteDialector(path string) gorm.Dialector {
	if path == "" {
		path = "asyncrawler-cache.sqlite"
	}
	return sqlite.Open(path)
}

func mysqlDialector(dsn string) gorm.Dialector {
	return mysql.Open(dsn)
}

func postgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}
