package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) call(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

// login obtains a development token for account.
func login(t *testing.T, base, account string) *client {
	t.Helper()
	c := &client{t: t, base: base}
	var out struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/api/v1/auth/dev", map[string]string{"account": account}, &out))
	c.token = out.Token
	return c
}

// fund mints, approves and deposits amount for the client's account.
func (c *client) fund(amount int64) {
	c.t.Helper()
	body := map[string]int64{"amount": amount}
	require.Equal(c.t, http.StatusOK, c.call(http.MethodPost, "/api/v1/token/mint", body, nil))
	require.Equal(c.t, http.StatusOK, c.call(http.MethodPost, "/api/v1/token/approve", body, nil))
	require.Equal(c.t, http.StatusOK, c.call(http.MethodPost, "/api/v1/deposit", body, nil))
}
