//go:build !purego

package state

import _ "github.com/mattn/go-sqlite3"

const driverName = "sqlite3"
