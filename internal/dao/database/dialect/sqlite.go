// Package dialect 补充各数据库方言的连接配置
package dialect

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName 覆盖了 lower() 的 SQLite 驱动名
const SQLiteDriverName = "sqlite3_unicode"

var registerSQLite sync.Once

// SQLite 返回 SQLite 方言
// SQLite 内置的 lower() 只转换 ASCII 字母，每个连接上都用 strings.ToLower 覆盖它，
// 使 LOWER(col) LIKE LOWER(?) 对非 ASCII 字母同样不区分大小写
func SQLite(dsn string) gorm.Dialector {
	registerSQLite.Do(func() {
		sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", strings.ToLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: SQLiteDriverName, DSN: dsn})
}
