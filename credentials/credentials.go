package credentials

import (
	"fmt"

	"github.com/spf13/viper"
)

// Credentials holds the iland Cloud API credentials loaded from a JSON
// credentials file. The schema is owned by the iland API's OAuth2 client:
// all four fields are required.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

var requiredKeys = []string{
	"client_id",
	"client_secret",
	"username",
	"password",
}

// Load reads a JSON credentials file and returns the credentials it holds.
func Load(credentialsFile string) (Credentials, error) {

	v := viper.New()
	v.SetConfigFile(credentialsFile)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return Credentials{}, fmt.Errorf("Unable to read credentials file %v: %v", credentialsFile, err)
	}

	for _, k := range requiredKeys {
		if v.GetString(k) == "" {
			return Credentials{}, fmt.Errorf("Credentials file %v is missing required key: %v", credentialsFile, k)
		}
	}

	return Credentials{
		ClientID:     v.GetString("client_id"),
		ClientSecret: v.GetString("client_secret"),
		Username:     v.GetString("username"),
		Password:     v.GetString("password"),
	}, nil
}
