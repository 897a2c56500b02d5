package config

// API configures the control/status HTTP surface.
type API struct {
	Addr string
}

func NewAPI() (*API, error) {
	return &API{Addr: envString("SWEEPER_API_ADDR", ":8090")}, nil
}

// DatabasePath is where run history lands; empty disables persistence.
func DatabasePath() string {
	return envString("SWEEPER_DB_PATH", "sweeper.db")
}
