// Package harness runs solution programs against stored sample cases.
package harness

// Version is the harness release version.
const Version = "v0.1.0"
