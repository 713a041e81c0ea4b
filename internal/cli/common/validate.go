package common

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// ValidateServeConfig checks the keys the serve command needs. strict also
// rejects placeholder secrets.
func ValidateServeConfig(v *viper.Viper, strict bool) error {
	secret := strings.TrimSpace(v.GetString("auth.jwt_secret"))
	if secret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if strict && secret == "change-me-in-production" {
		return fmt.Errorf("auth.jwt_secret still has the placeholder value")
	}
	return nil
}

// ValidateExportConfig checks the keys the export command needs.
func ValidateExportConfig(v *viper.Viper, strict bool) error {
	base := strings.TrimSpace(v.GetString("base_url"))
	if base == "" {
		return fmt.Errorf("base_url is required")
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not a valid URL", base)
	}
	if strict {
		if strings.TrimSpace(v.GetString("username")) == "" {
			return fmt.Errorf("username is required")
		}
		if strings.TrimSpace(v.GetString("password")) == "" {
			return fmt.Errorf("password is required")
		}
	}
	return nil
}
