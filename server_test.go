// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahkeup/acmestub/pkg/canned"
)

func TestServerDirectory(t *testing.T) {
	srv, err := Start()
	require.NoError(t, err)

	expectedDir := fmt.Sprintf("http://127.0.0.1:%d/directory", srv.Port().Int())
	assert.Equal(t, expectedDir, srv.DirectoryURL())
	t.Logf("directory: %s", srv.DirectoryURL())

	client := srv.Client()
	resp, err := client.Get(srv.DirectoryURL())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, canned.ContentTypeJOSE, resp.Header.Get("Content-Type"))

	var dir struct {
		NewOrder string `json:"newOrder"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dir))
	assert.Equal(t, srv.BaseURL()+"/acme/new-order", dir.NewOrder)

	srv.Shutdown()

	_, err = client.Get(srv.DirectoryURL())
	assert.Error(t, err, "stopped server should not answer")

	_, err = (&http.Client{Timeout: time.Second}).Get(srv.DirectoryURL())
	assert.Error(t, err, "stopped server should not answer fresh clients")

	_, err = net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	assert.Error(t, err, "listener should be released")
}

func TestServerNonce(t *testing.T) {
	srv := NewTesting(t)
	client := srv.Client()

	for i := 0; i < 3; i++ {
		resp, err := client.Head(srv.BaseURL() + canned.NewNoncePath)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, canned.ReplayNonce, resp.Header.Get("replay-nonce"))
	}
}

func TestServerNewAccount(t *testing.T) {
	srv := NewTesting(t)
	client := srv.Client()

	bodies := []string{"", "{}", `{"termsOfServiceAgreed":true}`, "not even json"}
	for _, body := range bodies {
		resp, err := client.Post(srv.BaseURL()+canned.NewAccountPath, canned.ContentTypeJOSE, strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, srv.BaseURL()+"/acme/acct/7728515", resp.Header.Get("Location"))
	}
}

func TestServerCertificate(t *testing.T) {
	srv := NewTesting(t)

	resp, err := srv.Client().Post(srv.BaseURL()+canned.CertificatePath, canned.ContentTypeJOSE, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, canned.CertificateBody, string(body))
	assert.Equal(t, canned.CertificateChainLink, resp.Header.Get("Link"))
}

func TestServerNotFound(t *testing.T) {
	srv := NewTesting(t)
	client := srv.Client()

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req, err := http.NewRequest(method, srv.BaseURL()+"/acme/nothing-here", nil)
			require.NoError(t, err)

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Empty(t, body)
		})
	}

	t.Run("OPTIONS *", func(t *testing.T) {
		resp, body := rawRequest(t, srv, "OPTIONS * HTTP/1.1\r\nHost: "+srv.Addr().String()+"\r\nConnection: close\r\n\r\n")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, body)
	})
}

// rawRequest writes request as is to srv and reads back a single response.
func rawRequest(t *testing.T, srv *Server, request string) (*http.Response, []byte) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, request)
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func TestServerMissingHost(t *testing.T) {
	srv := NewTesting(t)

	// HTTP/1.0 permits omitting Host entirely.
	resp, body := rawRequest(t, srv, "GET /directory HTTP/1.0\r\n\r\n")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"http://default/acme/new-order"`)
}

func TestServerConcurrentRequests(t *testing.T) {
	srv := NewTesting(t)
	client := srv.Client()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Post(srv.BaseURL()+canned.NewOrderPath, canned.ContentTypeJOSE, nil)
			if !assert.NoError(t, err) {
				return
			}
			resp.Body.Close()
			assert.Equal(t, srv.BaseURL()+canned.OrderPath, resp.Header.Get("Location"))
		}()
	}
	wg.Wait()
}

func TestServerShutdown(t *testing.T) {
	t.Run("twice", func(t *testing.T) {
		srv, err := Start()
		require.NoError(t, err)

		assert.NotPanics(t, srv.Shutdown)
		assert.NotPanics(t, srv.Shutdown)

		select {
		case <-srv.Done():
		default:
			assert.Fail(t, "server should be done after shutdown")
		}
	})

	t.Run("concurrent", func(t *testing.T) {
		srv, err := Start()
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				srv.Shutdown()
			}()
		}
		wg.Wait()
	})

	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		srv, err := Start(WithContext(ctx))
		require.NoError(t, err)

		cancel()
		select {
		case <-srv.Done():
		case <-time.After(5 * time.Second):
			require.Fail(t, "server should stop when its context is canceled")
		}

		_, err = net.DialTimeout("tcp", srv.Addr().String(), time.Second)
		assert.Error(t, err)
		srv.Shutdown()
	})

	t.Run("testing scope", func(t *testing.T) {
		var srv *Server
		t.Run("scoped", func(t *testing.T) {
			srv = NewTesting(t)
			resp, err := srv.Client().Get(srv.DirectoryURL())
			require.NoError(t, err)
			resp.Body.Close()
		})

		require.NotNil(t, srv)
		select {
		case <-srv.Done():
		default:
			assert.Fail(t, "server should be shut down with its test")
		}
	})

	t.Run("fresh port", func(t *testing.T) {
		first, err := Start()
		require.NoError(t, err)
		first.Shutdown()

		second := NewTesting(t)
		assert.NotEqual(t, first.Port(), second.Port())
	})
}

func TestServerStartErrors(t *testing.T) {
	t.Run("bind", func(t *testing.T) {
		bindErr := errors.New("no sockets for you")
		_, err := Start(WithListenConfig(net.ListenConfig{
			Control: func(network, address string, c syscall.RawConn) error {
				return bindErr
			},
		}))
		assert.ErrorIs(t, err, bindErr)
	})

	t.Run("options", func(t *testing.T) {
		_, err := Start(WithRenderCacheSize(0))
		assert.Error(t, err)

		_, err = Start(WithShutdownTimeout(-time.Second))
		assert.Error(t, err)
	})
}
