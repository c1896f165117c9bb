package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultIdentityURL    = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL = "https://securetoken.googleapis.com/v1"

	// idpRequestURI is echoed back by the toolkit; any absolute URI works
	// for ID-token based sign-in.
	idpRequestURI = "http://localhost"
)

// ToolkitOptions configures the REST client.
type ToolkitOptions struct {
	APIKey         string
	IdentityURL    string
	SecureTokenURL string
	HTTPClient     *http.Client
}

// Toolkit talks to the Identity Toolkit and Secure Token REST endpoints.
type Toolkit struct {
	apiKey         string
	identityURL    string
	secureTokenURL string
	http           *http.Client
}

func NewToolkit(opts ToolkitOptions) *Toolkit {
	t := &Toolkit{
		apiKey:         opts.APIKey,
		identityURL:    strings.TrimRight(opts.IdentityURL, "/"),
		secureTokenURL: strings.TrimRight(opts.SecureTokenURL, "/"),
		http:           opts.HTTPClient,
	}
	if t.identityURL == "" {
		t.identityURL = DefaultIdentityURL
	}
	if t.secureTokenURL == "" {
		t.secureTokenURL = DefaultSecureTokenURL
	}
	if t.http == nil {
		t.http = &http.Client{Timeout: 15 * time.Second}
	}
	return t
}

// authResponse is shared by signUp, signInWithPassword and signInWithIdp.
type authResponse struct {
	LocalID          string `json:"localId"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName"`
	PhotoURL         string `json:"photoUrl"`
	IDToken          string `json:"idToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        string `json:"expiresIn"`
	ProviderID       string `json:"providerId"`
	NeedConfirmation bool   `json:"needConfirmation"`
}

type accountInfo struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	Disabled     bool   `json:"disabled"`
	ProviderInfo []struct {
		ProviderID string `json:"providerId"`
	} `json:"providerUserInfo"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

func (t *Toolkit) signUp(ctx context.Context, email, password string) (*authResponse, error) {
	body := map[string]any{"email": email, "password": password, "returnSecureToken": true}
	var out authResponse
	if err := t.postJSON(ctx, "accounts:signUp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Toolkit) signInWithPassword(ctx context.Context, email, password string) (*authResponse, error) {
	body := map[string]any{"email": email, "password": password, "returnSecureToken": true}
	var out authResponse
	if err := t.postJSON(ctx, "accounts:signInWithPassword", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// signInWithIdp exchanges a provider ID token (e.g. from the Google popup).
func (t *Toolkit) signInWithIdp(ctx context.Context, providerID, idToken string) (*authResponse, error) {
	post := url.Values{"id_token": {idToken}, "providerId": {providerID}}
	body := map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          idpRequestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}
	var out authResponse
	if err := t.postJSON(ctx, "accounts:signInWithIdp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// update changes profile attributes. A pointer to "" deletes the attribute.
func (t *Toolkit) update(ctx context.Context, idToken string, displayName, photoURL *string) (*accountInfo, error) {
	body := map[string]any{"idToken": idToken, "returnSecureToken": false}
	var remove []string
	if displayName != nil {
		if *displayName == "" {
			remove = append(remove, "DISPLAY_NAME")
		} else {
			body["displayName"] = *displayName
		}
	}
	if photoURL != nil {
		if *photoURL == "" {
			remove = append(remove, "PHOTO_URL")
		} else {
			body["photoUrl"] = *photoURL
		}
	}
	if len(remove) > 0 {
		body["deleteAttribute"] = remove
	}

	var out accountInfo
	if err := t.postJSON(ctx, "accounts:update", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Toolkit) lookup(ctx context.Context, idToken string) (*accountInfo, error) {
	var out struct {
		Users []accountInfo `json:"users"`
	}
	if err := t.postJSON(ctx, "accounts:lookup", map[string]any{"idToken": idToken}, &out); err != nil {
		return nil, err
	}
	if len(out.Users) == 0 {
		return nil, &toolkitError{Status: http.StatusBadRequest, Message: "USER_NOT_FOUND"}
	}
	return &out.Users[0], nil
}

// refresh trades a refresh token for a new ID token.
func (t *Toolkit) refresh(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	form := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {refreshToken}}
	endpoint := t.secureTokenURL + "/token?" + url.Values{"key": {t.apiKey}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	if err := t.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Toolkit) postJSON(ctx context.Context, method string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := t.identityURL + "/" + method + "?" + url.Values{"key": {t.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, out)
}

func (t *Toolkit) do(req *http.Request, out any) error {
	resp, err := t.http.Do(req)
	if err != nil {
		return &networkError{err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &networkError{err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &env)
		msg := env.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &toolkitError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}

// expiresIn parses the toolkit's seconds-as-string lifetime.
func expiresIn(s string, now time.Time) time.Time {
	var secs int64
	if _, err := fmt.Sscan(s, &secs); err != nil || secs <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(secs) * time.Second)
}
