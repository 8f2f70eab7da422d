package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// OAuth2Config holds the interactive OAuth2 flow configuration.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
}

// AuthenticateOAuth2Interactive performs the OAuth2 flow interactively: it
// opens a local callback server, prints the consent URL, and exchanges the
// returned code for a token with a refresh token attached.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://localhost:8080/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	server := &http.Server{Addr: ":8080", Handler: mux}

	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errorChan <- fmt.Errorf("no authorization code received")
			_, _ = fmt.Fprint(w, "<html><body><h1>Authentication Failed</h1><p>No authorization code received. Please try again.</p></body></html>")
			return
		}
		codeChan <- code
		_, _ = fmt.Fprint(w, "<html><body><h1>Authentication Successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errorChan <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	slog.Info("Google Sheets authentication required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errorChan:
		_ = server.Close()
		return nil, err
	case <-time.After(5 * time.Minute):
		_ = server.Close()
		return nil, fmt.Errorf("authentication timed out")
	case <-ctx.Done():
		_ = server.Close()
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	token, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token received; revoke the app's access and authenticate again")
	}

	if config.TokenFile != "" {
		if err := SaveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token", "path", config.TokenFile, "error", err)
		}
	}
	return token, nil
}

// SaveToken writes a token to disk with user-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken reads a previously saved token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return &token, nil
}
