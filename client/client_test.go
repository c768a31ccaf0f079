package client_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jefftp/ilandinfo/client"
	"github.com/jefftp/ilandinfo/credentials"
	"github.com/jefftp/ilandinfo/test"
)

const tokenPath = "/token"
const apiPrefix = "/v1"

func testCredentials() credentials.Credentials {
	return credentials.Credentials{
		ClientID:     test.SecureRandomAlphaString(12),
		ClientSecret: test.SecureRandomAlphaString(32),
		Username:     "user@example.com",
		Password:     test.SecureRandomAlphaString(16),
	}
}

func testConfiguration(serverURL string, creds credentials.Credentials) client.Configuration {
	return client.Configuration{
		Timeout:     10 * time.Second,
		MaxRetries:  3,
		APIURL:      serverURL + apiPrefix,
		AccessURL:   serverURL + tokenPath,
		Credentials: creds,
	}
}

func writeToken(w http.ResponseWriter, accessToken, refreshToken string, expiresIn int) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    expiresIn,
	})
}

// nolint: dupl
func TestClientCreation(t *testing.T) {
	t.Parallel()

	t.Run("complete credentials are allowed", func(t *testing.T) {
		c, err := client.NewClient(client.Configuration{
			Timeout:     10 * time.Second,
			MaxRetries:  2,
			Credentials: testCredentials(),
		})
		if c == nil || err != nil {
			t.Error("Expected client to successfully create")
		}
	})

	t.Run("incomplete credentials are rejected", func(t *testing.T) {
		creds := testCredentials()
		creds.Password = ""
		c, err := client.NewClient(client.Configuration{
			Credentials: creds,
		})
		if c != nil || err == nil {
			t.Error("Expected client creation to fail without a password")
		}
	})
}

// nolint gocyclo
func TestGetUserInventory(t *testing.T) {
	creds := testCredentials()
	accessToken := test.SecureRandomAlphaString(40)
	grants := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			if r.Method != http.MethodPost {
				t.Error("Expected token request to be a POST")
			}
			if !strings.Contains(r.Header.Get(client.ContentTypeHeader), client.FormContentType) {
				t.Error("Expected token request to be form encoded")
			}
			if err := r.ParseForm(); err != nil {
				t.Error("Unable to parse token request form: ", err)
			}
			if r.PostForm.Get("grant_type") != "password" {
				t.Errorf("Expected a password grant, got: %v", r.PostForm.Get("grant_type"))
			}
			if r.PostForm.Get("client_id") != creds.ClientID ||
				r.PostForm.Get("client_secret") != creds.ClientSecret ||
				r.PostForm.Get("username") != creds.Username ||
				r.PostForm.Get("password") != creds.Password {
				t.Error("Expected credentials to be sent on the password grant")
			}
			grants++
			writeToken(w, accessToken, test.SecureRandomAlphaString(40), 3600)

		case apiPrefix + "/users/" + creds.Username + "/inventory":
			if r.Header.Get(client.AuthHeader) != "Bearer "+accessToken {
				t.Error("Expected bearer token to be set on request")
			}
			if r.Header.Get(client.AcceptHeader) != "application/json" {
				t.Error("Expected Accept header to be set on request")
			}
			if !strings.HasPrefix(r.Header.Get(client.UserAgentHeader), "ilandinfo/") {
				t.Error("Expected User-Agent to be set on request")
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"inventory":[
				{"company_id":"c1","entities":{"IAAS_VM":[{"name":"vm-a","uuid":"uuid-a"}]}},
				{"company_id":"c2","entities":{"IAAS_VM":[{"name":"vm-b","uuid":"uuid-b"}]}}
			]}`)

		default:
			t.Errorf("Unexpected request: %v", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c, err := client.NewClient(testConfiguration(ts.URL, creds))
	if err != nil {
		t.Fatal("Expected client to successfully create: ", err)
	}

	inv, err := c.GetUserInventory()
	if err != nil {
		t.Fatal("Expected inventory retrieval to succeed: ", err)
	}
	if len(inv.Inventory) != 2 {
		t.Errorf("Expected two companies in the inventory, got: %v", len(inv.Inventory))
	}
	if grants != 1 {
		t.Errorf("Expected exactly one password grant, got: %v", grants)
	}

	t.Run("cached token is reused", func(t *testing.T) {
		if _, err := c.GetUserInventory(); err != nil {
			t.Fatal("Expected inventory retrieval to succeed: ", err)
		}
		if grants != 1 {
			t.Errorf("Expected the cached token to be reused, got %v grants", grants)
		}
	})
}

func TestTokenRefresh(t *testing.T) {
	creds := testCredentials()
	refreshToken := test.SecureRandomAlphaString(40)
	passwordGrants := 0
	refreshGrants := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			_ = r.ParseForm()
			switch r.PostForm.Get("grant_type") {
			case "password":
				passwordGrants++
				// expires_in of zero is stale immediately
				writeToken(w, test.SecureRandomAlphaString(40), refreshToken, 0)
			case "refresh_token":
				refreshGrants++
				if r.PostForm.Get("refresh_token") != refreshToken {
					t.Error("Expected the refresh token to be sent on the refresh grant")
				}
				writeToken(w, test.SecureRandomAlphaString(40), refreshToken, 3600)
			default:
				t.Errorf("Unexpected grant type: %v", r.PostForm.Get("grant_type"))
			}

		default:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"inventory":[]}`)
		}
	}))
	defer ts.Close()

	c, err := client.NewClient(testConfiguration(ts.URL, creds))
	if err != nil {
		t.Fatal("Expected client to successfully create: ", err)
	}

	if _, err := c.GetUserInventory(); err != nil {
		t.Fatal("Expected inventory retrieval to succeed: ", err)
	}
	if _, err := c.GetUserInventory(); err != nil {
		t.Fatal("Expected inventory retrieval to succeed: ", err)
	}

	if passwordGrants != 1 {
		t.Errorf("Expected one password grant, got: %v", passwordGrants)
	}
	if refreshGrants != 1 {
		t.Errorf("Expected the stale token to be refreshed, got %v refresh grants", refreshGrants)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	creds := testCredentials()
	inventoryRequests := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			writeToken(w, test.SecureRandomAlphaString(40), "", 3600)
		default:
			inventoryRequests++
			if inventoryRequests == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"inventory":[]}`)
		}
	}))
	defer ts.Close()

	c, err := client.NewClient(testConfiguration(ts.URL, creds))
	if err != nil {
		t.Fatal("Expected client to successfully create: ", err)
	}

	if _, err := c.GetUserInventory(); err != nil {
		t.Fatal("Expected inventory retrieval to succeed after a retry: ", err)
	}
	if inventoryRequests != 2 {
		t.Errorf("Expected a 500 response to be retried once, got %v requests", inventoryRequests)
	}
}

func TestTerminalStatus(t *testing.T) {
	creds := testCredentials()
	inventoryRequests := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			writeToken(w, test.SecureRandomAlphaString(40), "", 3600)
		default:
			inventoryRequests++
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"access denied"}`)
		}
	}))
	defer ts.Close()

	c, err := client.NewClient(testConfiguration(ts.URL, creds))
	if err != nil {
		t.Fatal("Expected client to successfully create: ", err)
	}

	_, err = c.GetUserInventory()
	if err == nil {
		t.Fatal("Expected inventory retrieval to fail on a 403 response")
	}

	statusErr, ok := err.(client.StatusError)
	if !ok {
		t.Fatalf("Expected a StatusError, got: %T", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected a 403 status code, got: %v", statusErr.StatusCode)
	}
	if inventoryRequests != 1 {
		t.Errorf("Expected a 4xx response not to be retried, got %v requests", inventoryRequests)
	}
}

func TestGetSleepDuration(t *testing.T) {
	t.Parallel()

	if d := client.GetSleepDuration(1); d != 0 {
		t.Errorf("Expected first retry not to sleep, got: %v", d)
	}
	if d := client.GetSleepDuration(3); d != 3*time.Second {
		t.Errorf("Expected third retry to sleep 3s, got: %v", d)
	}
}
