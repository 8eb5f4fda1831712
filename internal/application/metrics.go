package application

import "expvar"

// Counters published under /debug/vars.
var (
	signupsTotal         = expvar.NewInt("auth_signups_total")
	loginsTotal          = expvar.NewInt("auth_logins_total")
	loginFailuresTotal   = expvar.NewInt("auth_login_failures_total")
	productsCreatedTotal = expvar.NewInt("products_created_total")
	productsUpdatedTotal = expvar.NewInt("products_updated_total")
	productsDeletedTotal = expvar.NewInt("products_deleted_total")
)
