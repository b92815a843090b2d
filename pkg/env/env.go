// Package env keeps names of environment variables with special significance to
// sexp.
package env

// Environment variables with special significance to sexp.
const (
	HOME            = "HOME"
	XDG_CONFIG_HOME = "XDG_CONFIG_HOME"
	XDG_DATA_HOME   = "XDG_DATA_HOME"
	// Overrides the path of the database when -db is not given.
	SEXP_DB = "SEXP_DB"
)
