package client

import (
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jefftp/ilandinfo/credentials"
	"github.com/jefftp/ilandinfo/inventory"
	"github.com/jefftp/ilandinfo/util"
	"github.com/jefftp/ilandinfo/version"
)

// DefaultAPIURL is the base URL of the iland Cloud REST API.
const DefaultAPIURL string = "https://api.ilandcloud.com/v1"

// DefaultAccessURL is the iland Cloud SSO token endpoint.
const DefaultAccessURL string = "https://console.ilandcloud.com/auth/realms/iland-core/protocol/openid-connect/token"

const defaultTimeout = 1 * time.Minute
const defaultMaxRetries = 5

// expirySkew is how long before actual token expiry a cached token is
// considered stale.
const expirySkew = 10 * time.Second

const authHeader = "Authorization"
const acceptHeader = "Accept"
const contentTypeHeader = "Content-Type"
const userAgentHeader = "User-Agent"
const proxyAuthHeader = "Proxy-Authorization"

const formContentType = "application/x-www-form-urlencoded"

// Configuration represents configurable values for the iland API client
type Configuration struct {
	Timeout       time.Duration
	MaxRetries    int
	APIURL        string
	AccessURL     string
	ProxyURL      url.URL
	ProxyAuth     string
	ProxyInsecure bool
	Verbose       bool
	Credentials   credentials.Credentials
}

// Client represents an interface to query the iland Cloud API for the
// authenticated user's inventory and task status.
type Client interface {
	GetUserInventory() (inventory.Response, error)
	GetTask(taskUUID string) (Task, error)
	WatchTask(taskUUID string, out io.Writer, interval time.Duration) error
}

// NewClient will configure a new instance of an iland API client.
func NewClient(cfg Configuration) (Client, error) {

	if cfg.Credentials.ClientID == "" || cfg.Credentials.ClientSecret == "" ||
		cfg.Credentials.Username == "" || cfg.Credentials.Password == "" {
		return nil, fmt.Errorf("client_id, client_secret, username and password are all required. " +
			"Please check your credentials file")
	}

	// Use defaults
	if cfg.Timeout.Seconds() <= 0 {
		if cfg.Verbose {
			log.Infof("Using default timeout of %v", defaultTimeout)
		}
		cfg.Timeout = defaultTimeout
	}
	if len(strings.TrimSpace(cfg.APIURL)) == 0 {
		if cfg.Verbose {
			log.Infof("Using default API URL of %v", DefaultAPIURL)
		}
		cfg.APIURL = DefaultAPIURL
	}
	if len(strings.TrimSpace(cfg.AccessURL)) == 0 {
		if cfg.Verbose {
			log.Infof("Using default access URL of %v", DefaultAccessURL)
		}
		cfg.AccessURL = DefaultAccessURL
	}
	if cfg.MaxRetries <= 0 {
		if cfg.Verbose {
			log.Infof("Using default retries %v", defaultMaxRetries)
		}
		cfg.MaxRetries = defaultMaxRetries
	}

	netTransport := &http.Transport{
		Dial:                (&net.Dialer{Timeout: cfg.Timeout}).Dial,
		TLSHandshakeTimeout: cfg.Timeout,
	}

	// configure outbound proxy
	if len(cfg.ProxyURL.Host) > 0 {
		ConnectHeader := http.Header{}

		if cfg.ProxyAuth != "" {
			basicAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.ProxyAuth))
			ConnectHeader.Add(proxyAuthHeader, basicAuth)
		}

		netTransport = &http.Transport{
			Dial:                (&net.Dialer{Timeout: cfg.Timeout}).Dial,
			Proxy:               http.ProxyURL(&cfg.ProxyURL),
			ProxyConnectHeader:  ConnectHeader,
			TLSHandshakeTimeout: cfg.Timeout,
			TLSClientConfig: &tls.Config{
				//nolint gas
				InsecureSkipVerify: cfg.ProxyInsecure,
			},
		}
	}

	httpClient := http.Client{
		Timeout:   cfg.Timeout,
		Transport: netTransport,
	}

	userAgent := fmt.Sprintf("ilandinfo/%v", version.VERSION)

	return &httpAPIClient{
		httpClient:  httpClient,
		userAgent:   userAgent,
		apiURL:      strings.TrimSuffix(cfg.APIURL, "/"),
		accessURL:   cfg.AccessURL,
		credentials: cfg.Credentials,
		verbose:     cfg.Verbose,
		maxRetries:  cfg.MaxRetries,
	}, nil

}

type httpAPIClient struct {
	httpClient  http.Client
	userAgent   string
	apiURL      string
	accessURL   string
	credentials credentials.Credentials
	verbose     bool
	maxRetries  int
	token       token
}

type token struct {
	accessToken  string
	refreshToken string
	expiry       time.Time
}

func (t token) valid() bool {
	return t.accessToken != "" && time.Now().Before(t.expiry.Add(-expirySkew))
}

// tokenResponse represents the response from the SSO token endpoint
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// GetUserInventory retrieves the full inventory of the authenticated user.
func (c *httpAPIClient) GetUserInventory() (inventory.Response, error) {
	inv := inventory.Response{}

	body, err := c.get("/users/" + url.PathEscape(c.credentials.Username) + "/inventory")
	if err != nil {
		return inv, err
	}

	if err = json.Unmarshal(body, &inv); err != nil {
		return inv, fmt.Errorf("Unable to decode inventory response: %v", err)
	}

	return inv, nil
}

// get issues an authenticated GET against the API, retrying transport
// errors and 5xx responses with backoff.
func (c *httpAPIClient) get(path string) (body []byte, err error) {

	URL := c.apiURL + path

	for i := 0; i < c.maxRetries; i++ {

		if i > 0 {
			time.Sleep(getSleepDuration(i))
		}

		var bearer string
		bearer, err = c.bearerToken()
		if err != nil {
			log.Errorf("GET Retry %d: unable to acquire access token: %v", i, err)
			continue
		}

		var req *http.Request
		req, err = http.NewRequest(http.MethodGet, URL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set(authHeader, "Bearer "+bearer)
		req.Header.Set(acceptHeader, "application/json")
		req.Header.Set(userAgentHeader, c.userAgent)

		if c.verbose {
			requestDump, requestErr := httputil.DumpRequest(req, false)
			if requestErr != nil {
				log.Errorln(requestErr)
			}
			log.Infoln(string(requestDump))
		}

		var resp *http.Response
		resp, err = c.httpClient.Do(req)
		if err != nil {
			log.Errorf("GET Retry %d: unable to connect to URL: %s: %v", i, URL, err)
			continue
		}

		var terminal bool
		body, terminal, err = c.readResponse(resp, URL, i)
		if err != nil {
			if terminal {
				return nil, err
			}
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("Request to %v failed after %v attempts: %v", URL, c.maxRetries, err)
}

// StatusError is returned for 4xx responses, which will not be resolved by
// retrying.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("Request received %v response: %v", e.StatusCode, e.Body)
}

func (c *httpAPIClient) readResponse(resp *http.Response, URL string, attempt int) (body []byte, terminal bool, rerr error) {

	defer util.SafeClose(resp.Body.Close, &rerr)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("GET Retry %d: unable to read response from: %s", attempt, URL)
		return nil, false, err
	}

	if c.verbose {
		log.Infof("%v %v", resp.Status, URL)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return body, false, nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 499 {
		return nil, true, StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	log.Errorf("GET Retry %d: invalid response from URL: %s, Status: %s", attempt, URL, resp.Status)
	return nil, false, fmt.Errorf("Request received %v response", resp.StatusCode)
}

// bearerToken returns a cached access token, refreshing or re-authenticating
// as needed.
func (c *httpAPIClient) bearerToken() (string, error) {

	if c.token.valid() {
		return c.token.accessToken, nil
	}

	if c.token.refreshToken != "" {
		if err := c.refreshAccessToken(); err == nil {
			return c.token.accessToken, nil
		}
		// fall back to a fresh password grant
		log.Debugln("Token refresh failed, re-authenticating")
		c.token = token{}
	}

	if err := c.login(); err != nil {
		return "", err
	}

	return c.token.accessToken, nil
}

func (c *httpAPIClient) login() error {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.credentials.ClientID)
	form.Set("client_secret", c.credentials.ClientSecret)
	form.Set("username", c.credentials.Username)
	form.Set("password", c.credentials.Password)

	return c.requestToken(form)
}

func (c *httpAPIClient) refreshAccessToken() error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.credentials.ClientID)
	form.Set("client_secret", c.credentials.ClientSecret)
	form.Set("refresh_token", c.token.refreshToken)

	return c.requestToken(form)
}

func (c *httpAPIClient) requestToken(form url.Values) (rerr error) {

	req, err := http.NewRequest(http.MethodPost, c.accessURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set(contentTypeHeader, formContentType)
	req.Header.Set(acceptHeader, "application/json")
	req.Header.Set(userAgentHeader, c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Unable to connect to access URL %v: %v", c.accessURL, err)
	}

	defer util.SafeClose(resp.Body.Close, &rerr)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Unable to read token response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Authentication failed with %v response: %v", resp.StatusCode,
			strings.TrimSpace(string(body)))
	}

	t := tokenResponse{}
	if err = json.Unmarshal(body, &t); err != nil {
		return fmt.Errorf("Unable to decode token response: %v", err)
	}
	if t.AccessToken == "" {
		return fmt.Errorf("Token response did not contain an access token")
	}

	c.token = token{
		accessToken:  t.AccessToken,
		refreshToken: t.RefreshToken,
		expiry:       time.Now().Add(time.Duration(t.ExpiresIn) * time.Second),
	}

	return nil
}

func getSleepDuration(tries int) time.Duration {
	seconds := int((0.5) * (math.Pow(2, float64(tries)) - 1))
	return time.Duration(seconds) * time.Second
}
