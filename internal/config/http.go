package config

const (
	HCType        = "Content-Type"
	HCacheControl = "Cache-Control"

	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)
