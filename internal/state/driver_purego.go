//go:build purego

package state

import _ "modernc.org/sqlite"

const driverName = "sqlite"
