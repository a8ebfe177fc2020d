package oauth

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func get(t *testing.T, server *CallbackServer, query url.Values) string {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/callback?%s", server.Port(), query.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCallbackServer_Start_EphemeralPort(t *testing.T) {
	server := startServer(t, "state-1")

	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_ReceivesCode(t *testing.T) {
	server := startServer(t, "state-1")

	body := get(t, server, url.Values{"state": {"state-1"}, "code": {"auth-code-42"}})
	assert.Contains(t, body, "Authorization complete")

	code, err := server.WaitForCode(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-42", code)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	server := startServer(t, "state-1")

	body := get(t, server, url.Values{"state": {"wrong"}, "code": {"auth-code-42"}})
	assert.Contains(t, body, "Authorization failed")

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startServer(t, "state-1")

	body := get(t, server, url.Values{
		"error":             {"access_denied"},
		"error_description": {"The user denied the request."},
	})
	assert.Contains(t, body, "Authorization failed")

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_MissingCode(t *testing.T) {
	server := startServer(t, "state-1")

	get(t, server, url.Values{"state": {"state-1"}})

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authorization code")
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := startServer(t, "state-1")

	start := time.Now()
	_, err := server.WaitForCode(50 * time.Millisecond)

	assert.ErrorIs(t, err, domain.ErrAuthorizationTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCallbackServer_Stop(t *testing.T) {
	server := NewCallbackServer(0, "state-1")
	require.NoError(t, server.Start())
	port := server.Port()

	require.NoError(t, server.Stop())

	// Listener is released.
	_, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/callback", port))
	assert.Error(t, err)
}

func TestCallbackServer_StopWithoutStart(t *testing.T) {
	server := NewCallbackServer(0, "state-1")
	assert.NoError(t, server.Stop())
}

func TestNewReceiverFactory(t *testing.T) {
	factory := NewReceiverFactory()

	receiver := factory("state-9")
	require.NoError(t, receiver.Start())
	defer receiver.Stop() //nolint:errcheck

	assert.Contains(t, receiver.RedirectURI(), "http://127.0.0.1:")
}
