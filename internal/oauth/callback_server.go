package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"
)

// successHTML is the confirmation page served after a completed login.
const successHTML = `<html>
<head><title>Login Successful</title></head>
<body style="font-family: system-ui; max-width: 600px; margin: 80px auto;">
<h1>Login Successful!</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>
`

// loginResult is the single-resolution outcome of a login attempt. Exactly
// one of Tokens or Err is set.
type loginResult struct {
	Tokens *Tokens
	Err    error
}

// exchangeFunc exchanges an authorization code for tokens. The callback
// server calls it synchronously inside the request handler so the browser
// only sees the success page once the credentials actually exist.
type exchangeFunc func(ctx context.Context, code string) (*Tokens, error)

// CallbackServer is a short-lived local HTTP server bound to the loopback
// interface that receives the authorization redirect. It captures at most
// one authorization code: the first completed callback resolves the login
// and the server stops accepting afterwards.
type CallbackServer struct {
	port     int
	state    string
	exchange exchangeFunc

	server   *http.Server
	listener net.Listener
	resultCh chan loginResult
	once     sync.Once
}

// NewCallbackServer creates a callback server for one login attempt.
// The state parameter is validated against the callback to prevent
// cross-request injection.
func NewCallbackServer(port int, state string, exchange exchangeFunc) *CallbackServer {
	return &CallbackServer{
		port:     port,
		state:    state,
		exchange: exchange,
		resultCh: make(chan loginResult, 1),
	}
}

// Start binds the listener and begins serving. It binds 127.0.0.1 only,
// never all interfaces. A bind failure on an already-bound port returns a
// PortInUseError; the caller must not retry on a different port since only
// the configured one is registered with the authorization server.
//
// Returns the redirect URI derived from the bound port.
func (s *CallbackServer) Start() (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return "", &PortInUseError{Port: s.port, Err: err}
		}
		return "", fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)
	mux.HandleFunc("/success", s.handleSuccess)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = s.server.Serve(listener)
	}()

	return RedirectURI(s.port), nil
}

// Result returns the channel carrying the single login outcome.
func (s *CallbackServer) Result() <-chan loginResult {
	return s.resultCh
}

// Port returns the port the server is bound to.
func (s *CallbackServer) Port() int {
	return s.port
}

// Complete resolves the login attempt. Only the first call wins; later
// completions (a second callback, or the losing side of the race with the
// pasted-URL path) are discarded.
func (s *CallbackServer) Complete(tokens *Tokens, err error) {
	s.once.Do(func() {
		s.resultCh <- loginResult{Tokens: tokens, Err: err}
	})
}

// handleCallback processes the authorization redirect.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		http.Error(w, "Missing auth code", http.StatusBadRequest)
		s.Complete(nil, ErrMissingCode)
		return
	}

	if state := query.Get("state"); state != s.state {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		s.Complete(nil, ErrStateMismatch)
		return
	}

	tokens, err := s.exchange(r.Context(), code)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error: %v", err), http.StatusInternalServerError)
		s.Complete(nil, err)
		return
	}

	s.Complete(tokens, nil)
	http.Redirect(w, r, fmt.Sprintf("http://localhost:%d/success", s.port), http.StatusFound)
}

// handleSuccess serves the static confirmation page. It does not affect
// the login outcome.
func (s *CallbackServer) handleSuccess(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(successHTML))
}

// Stop shuts the server down. Safe to call more than once and regardless
// of which completion path won.
func (s *CallbackServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
