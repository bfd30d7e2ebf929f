package dispatch

import (
	"fmt"
	"time"
)

type Config struct {
	// SendTimeout bounds a single vendor's create-and-notify unit.
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	// AppLink is the address vendors are pointed at in the invitation.
	AppLink string `mapstructure:"app_link"`
}

func DefaultConfig() *Config {
	return &Config{
		SendTimeout: 30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be positive")
	}
	return nil
}
