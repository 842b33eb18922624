package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved listen address
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("Lunchwheel", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Str("location_provider", config.Location.Provider).
		Msg("Lunchwheel starting")
}
