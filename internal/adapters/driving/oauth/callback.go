// Package oauth runs the loopback OAuth flow that grants caption access.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><title>askontube</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; justify-content: center;
       align-items: center; height: 100vh; margin: 0; background: #FAFAFA; }
main { text-align: center; background: #FFF; padding: 48px 64px;
       border-radius: 16px; border: 1px solid #C7C8CC; }
h1 { color: #333F50; margin: 0 0 8px; font-size: 24px; }
p { color: #7B8088; margin: 0; }
</style></head>
<body><main><h1>{{.Title}}</h1><p>{{.Message}}</p></main></body>
</html>`))

type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives the authorization redirect on 127.0.0.1. Only the
// first result is kept; later redirects are answered but ignored.
type CallbackServer struct {
	state   string
	results chan callbackResult

	mu     sync.Mutex
	port   int
	server *http.Server
}

// NewCallbackServer returns a server that accepts redirects carrying state.
// Port 0 lets Start pick a free port.
func NewCallbackServer(port int, state string) *CallbackServer {
	return &CallbackServer{
		state:   state,
		results: make(chan callbackResult, 1),
		port:    port,
	}
}

// Start listens and serves /callback in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.port = ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/callback", s)
	s.server = &http.Server{Handler: mux, ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(callbackResult{err: err})
		}
	}()
	return nil
}

// ServeHTTP handles one redirect from the authorization server.
func (s *CallbackServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code, err := s.parse(r.URL.Query())
	s.deliver(callbackResult{code: code, err: err})

	page := struct{ Title, Message string }{"Authorization successful", "You can close this window and return to askontube."}
	if err != nil {
		page.Title, page.Message = "Authorization failed", err.Error()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = resultPage.Execute(w, page)
}

func (s *CallbackServer) parse(q url.Values) (string, error) {
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("authorization denied: %s: %s", e, q.Get("error_description"))
	}
	if q.Get("state") != s.state {
		return "", errors.New("state mismatch")
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("no authorization code received")
	}
	return code, nil
}

func (s *CallbackServer) deliver(r callbackResult) {
	select {
	case s.results <- r:
	default:
	}
}

// WaitForCode returns the authorization code, the redirect's error, or
// ctx's error, whichever comes first.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case r := <-s.results:
		return r.code, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("timeout waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts the server down. It is safe to call before Start.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the listening port, or the requested one before Start.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI is the redirect URL to register with the OAuth client.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.Port())
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{url}
	case "linux":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return exec.Command(name, args...).Start()
}

// FindAvailablePort returns the first port in [start, end] that can be bound.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			_ = ln.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// GenerateState returns a random URL-safe value for the state parameter.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
