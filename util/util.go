package util

import (
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/spf13/viper"
)

// IsValidURL returns true if string is a valid URL
func IsValidURL(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	return err == nil
}

// CheckRequiredSettings checks for required min values / flags / environment variables
func CheckRequiredSettings(requiredArgs []string) error {

	for _, a := range requiredArgs {
		if viper.GetString(a) != "" {
			continue
		}
		return fmt.Errorf("Required flag: %v or environment variable: ILANDINFO_"+strings.ToUpper(
			a)+" has not been set", a)

	}

	if viper.IsSet("timeout") && viper.GetInt("timeout") < 1 {
		return fmt.Errorf(
			"Timeout must be 1 second or greater")
	}

	for _, u := range []string{"api_url", "access_url"} {
		if viper.GetString(u) != "" && !IsValidURL(viper.GetString(u)) {
			return fmt.Errorf("Flag %v is not a valid URL: %v", u, viper.GetString(u))
		}
	}

	return nil
}

// SafeClose will close the given closer function, setting the err ONLY if it is currently nil. This
// allows for cleaner handling of always-closing, but retaining the original error (ie from a previous
// Write).
func SafeClose(closer func() error, err *error) {
	if closeErr := closer(); closeErr != nil && *err == nil {
		(*err) = closeErr
	}
}

// SetupLogger sets configuration for the default logger
func SetupLogger() (err error) {

	var (
		ll = viper.GetString("log_level")
		lf = strings.ToLower(viper.GetString("log_format"))
	)

	// Set log level
	l, err := log.ParseLevel(ll)
	if err != nil {
		return fmt.Errorf("Invalid log level: %v", ll)
	}
	log.SetLevel(l)
	log.Debugf("Log level set to: %v", l.String())

	// Set log format
	switch lf {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{
			DisableLevelTruncation: true,
			PadLevelText:           true,
		})
	}
	return nil
}
