// Package facebook verifies Facebook Login access tokens through the Graph API.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"passport/config"
	"passport/internal/domain/entity"
	"passport/internal/domain/service"
	"passport/internal/errors"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v19.0"

// Verifier inspects Facebook access tokens with the Graph API's debug_token
// endpoint, then reads the user profile the token grants access to.
type Verifier struct {
	appID     string
	appSecret string
	baseURL   string
	client    *http.Client
}

// NewVerifier creates a verifier bound to the configured Facebook app.
func NewVerifier(cfg *config.Config) (*Verifier, error) {
	if cfg.FacebookOAuth == nil || cfg.FacebookOAuth.AppID == "" || cfg.FacebookOAuth.AppSecret == "" {
		return nil, errors.New("facebook oauth app credentials are not configured")
	}

	return &Verifier{
		appID:     cfg.FacebookOAuth.AppID,
		appSecret: cfg.FacebookOAuth.AppSecret,
		baseURL:   defaultGraphBaseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

var _ service.ProviderVerifier = (*Verifier)(nil)

// Provider returns the provider this verifier speaks for.
func (v *Verifier) Provider() entity.Provider {
	return entity.ProviderFacebook
}

type debugTokenResponse struct {
	Data struct {
		AppID   string `json:"app_id"`
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

type profileResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// Verify confirms with Facebook that the access token is live and was issued
// for this app, then fetches the profile fields the token grants.
func (v *Verifier) Verify(ctx context.Context, credential string) (*entity.ExternalIdentity, error) {
	debug, err := v.debugToken(ctx, credential)
	if err != nil {
		return nil, err
	}
	if !debug.Data.IsValid {
		return nil, errors.New("facebook access token is not valid")
	}
	if debug.Data.AppID != v.appID {
		return nil, errors.Errorf("facebook access token issued for app %s", debug.Data.AppID)
	}

	profile, err := v.fetchProfile(ctx, credential)
	if err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, errors.New("facebook profile missing id")
	}
	if debug.Data.UserID != "" && debug.Data.UserID != profile.ID {
		return nil, errors.New("facebook token user does not match profile")
	}

	return &entity.ExternalIdentity{
		Provider:   entity.ProviderFacebook,
		ExternalID: profile.ID,
		Email:      profile.Email,
		FullName:   profile.Name,
		AvatarURL:  profile.Picture.Data.URL,
	}, nil
}

func (v *Verifier) debugToken(ctx context.Context, credential string) (*debugTokenResponse, error) {
	query := url.Values{}
	query.Set("input_token", credential)
	query.Set("access_token", fmt.Sprintf("%s|%s", v.appID, v.appSecret))

	var resp debugTokenResponse
	if err := v.getJSON(ctx, "/debug_token", query, &resp); err != nil {
		return nil, errors.Wrap(err, "debug facebook token")
	}

	return &resp, nil
}

func (v *Verifier) fetchProfile(ctx context.Context, credential string) (*profileResponse, error) {
	query := url.Values{}
	query.Set("fields", "id,name,email,picture.width(256)")
	query.Set("access_token", credential)

	var resp profileResponse
	if err := v.getJSON(ctx, "/me", query, &resp); err != nil {
		return nil, errors.Wrap(err, "fetch facebook profile")
	}

	return &resp, nil
}

func (v *Verifier) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "build graph request")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "call graph api")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("graph api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode graph response")
	}

	return nil
}
