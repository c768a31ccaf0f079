package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jefftp/ilandinfo/client"
	"github.com/jefftp/ilandinfo/credentials"
	"github.com/jefftp/ilandinfo/util"
)

// RootCmd is the cobra root command to be executed
var RootCmd = &cobra.Command{
	Use:   "ilandinfo [command] [flags]",
	Short: "Collect information about your iland Cloud environment",
	Long: `Collect information about your iland Cloud environment using the ` +
		`iland Cloud API.`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return util.SetupLogger()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("")
	},
}

func init() {

	//add cobra and viper ENVs and flags
	RootCmd.PersistentFlags().StringP(
		"credentials_file",
		"c",
		"creds.json",
		"Credentials file (JSON format)",
	)
	RootCmd.PersistentFlags().String(
		"api_url",
		"",
		"iland Cloud API base URL - optionally override the production API URL.",
	)
	RootCmd.PersistentFlags().String(
		"access_url",
		"",
		"iland Cloud SSO token URL - optionally override the production token URL.",
	)
	RootCmd.PersistentFlags().Int(
		"timeout",
		60,
		"Time, in seconds, to wait for an API response.",
	)
	RootCmd.PersistentFlags().Int(
		"max_retries",
		5,
		"Number of times to retry a failed API request.",
	)
	RootCmd.PersistentFlags().String(
		"outbound_proxy",
		"",
		"Outbound HTTP/HTTPS proxy eg: http://x.x.x.x:8080. Must have a scheme prefix (http:// or https://) - Optional",
	)
	RootCmd.PersistentFlags().String(
		"outbound_proxy_auth",
		"",
		"Outbound proxy basic authentication credentials. Must defined in the form username:password - Optional",
	)
	RootCmd.PersistentFlags().Bool(
		"outbound_proxy_insecure",
		false,
		"When true, does not verify TLS certificates when using the outbound proxy. Default: False",
	)
	RootCmd.PersistentFlags().String(
		"log_level",
		"info",
		"Log level: debug, info, warn, error, fatal.",
	)
	RootCmd.PersistentFlags().String(
		"log_format",
		"text",
		"Log format: text or json.",
	)
	RootCmd.PersistentFlags().Bool(
		"verbose",
		false,
		"When true, logs API requests and client defaults.",
	)

	//nolint gas
	_ = viper.BindPFlag("credentials_file", RootCmd.PersistentFlags().Lookup("credentials_file"))
	_ = viper.BindPFlag("api_url", RootCmd.PersistentFlags().Lookup("api_url"))
	_ = viper.BindPFlag("access_url", RootCmd.PersistentFlags().Lookup("access_url"))
	_ = viper.BindPFlag("timeout", RootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("max_retries", RootCmd.PersistentFlags().Lookup("max_retries"))
	_ = viper.BindPFlag("outbound_proxy", RootCmd.PersistentFlags().Lookup("outbound_proxy"))
	_ = viper.BindPFlag("outbound_proxy_auth", RootCmd.PersistentFlags().Lookup("outbound_proxy_auth"))
	_ = viper.BindPFlag("outbound_proxy_insecure", RootCmd.PersistentFlags().Lookup("outbound_proxy_insecure"))
	_ = viper.BindPFlag("log_level", RootCmd.PersistentFlags().Lookup("log_level"))
	_ = viper.BindPFlag("log_format", RootCmd.PersistentFlags().Lookup("log_format"))
	_ = viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("ilandinfo")
	viper.AutomaticEnv()
}

// newAPIClient loads the credentials file and builds an iland API client
// from the resolved flags and environment variables.
func newAPIClient() (client.Client, error) {

	creds, err := credentials.Load(viper.GetString("credentials_file"))
	if err != nil {
		return nil, err
	}

	cfg := client.Configuration{
		Timeout:       time.Duration(viper.GetInt("timeout")) * time.Second,
		MaxRetries:    viper.GetInt("max_retries"),
		APIURL:        viper.GetString("api_url"),
		AccessURL:     viper.GetString("access_url"),
		ProxyAuth:     viper.GetString("outbound_proxy_auth"),
		ProxyInsecure: viper.GetBool("outbound_proxy_insecure"),
		Verbose:       viper.GetBool("verbose"),
		Credentials:   creds,
	}

	if proxy := viper.GetString("outbound_proxy"); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, fmt.Errorf("Unable to parse outbound_proxy: %v", proxy)
		}
		cfg.ProxyURL = *proxyURL
	}

	return client.NewClient(cfg)
}
