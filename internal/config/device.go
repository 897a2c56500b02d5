package config

// Device locates the phone-side agent the bot talks to.
type Device struct {
	AgentURL    string
	DialTimeout int // seconds
}

func NewDevice() (*Device, error) {
	return &Device{
		AgentURL:    envString("SWEEPER_AGENT_URL", "ws://localhost:9100/agent"),
		DialTimeout: envInt("SWEEPER_AGENT_DIAL_TIMEOUT", 10),
	}, nil
}
