package services

import (
	"context"

	"github.com/unitrack/unitrack/credentials"
	"github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/validation"
)

const (
	pathLogin   = "/auth/login"
	pathSignup  = "/auth/signup"
	pathRefresh = "/auth/refresh"
	pathLogout  = "/auth/logout"
	pathProfile = "/auth/profile"
)

// Auth manages the session. It is the only façade that writes the
// credential store, and it writes only after a reply decoded cleanly.
type Auth struct {
	client *httpclient.Client
	store  credentials.Store
	log    *logger.Logger
}

// NewAuth creates the auth façade.
func NewAuth(client *httpclient.Client, store credentials.Store) *Auth {
	return &Auth{client: client, store: store, log: logger.Get("auth")}
}

// Login exchanges email and password for a session. A 401 becomes an
// INVALID_CREDENTIALS error whose cause is the server error.
func (a *Auth) Login(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	resp, err := a.authenticate(ctx, pathLogin, req)
	if err != nil {
		if httpclient.IsUnauthorized(err) {
			return nil, errors.InvalidCredentials(err)
		}
		return nil, err
	}
	a.log.Info("logged in", logger.Fields(logger.FieldEmail, resp.User.Email))
	return resp, nil
}

// Signup creates an account and starts its session.
func (a *Auth) Signup(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	resp, err := a.authenticate(ctx, pathSignup, req)
	if err != nil {
		return nil, err
	}
	a.log.Info("signed up", logger.Fields(logger.FieldEmail, resp.User.Email))
	return resp, nil
}

func (a *Auth) authenticate(ctx context.Context, path string, req AuthRequest) (*AuthResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	resp, err := httpclient.Post[AuthResponse](ctx, a.client, path, req, httpclient.WithoutAuth())
	if err != nil {
		return nil, err
	}
	if err := a.save(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh trades the stored refresh token for a new pair. Without a stored
// refresh token it fails before touching the network. A rejected refresh
// token becomes TOKEN_EXPIRED; the stored pair is left as it was.
func (a *Auth) Refresh(ctx context.Context) (*AuthResponse, error) {
	rt := a.store.RefreshToken()
	if rt == "" {
		return nil, errors.Unauthorized("")
	}
	resp, err := httpclient.Post[AuthResponse](ctx, a.client, pathRefresh,
		refreshRequest{RefreshToken: rt}, httpclient.WithoutAuth())
	if err != nil {
		if httpclient.IsUnauthorized(err) {
			return nil, errors.TokenExpired(err)
		}
		return nil, err
	}
	if err := a.save(resp); err != nil {
		return nil, err
	}
	a.log.Debug("session refreshed")
	return &resp, nil
}

// Logout revokes the refresh token on the server and then clears the store.
// On failure the store is left untouched.
func (a *Auth) Logout(ctx context.Context) error {
	body := refreshRequest{RefreshToken: a.store.RefreshToken()}
	if err := httpclient.PostVoid(ctx, a.client, pathLogout, body); err != nil {
		return err
	}
	if err := a.store.Clear(); err != nil {
		return errors.Storage(err)
	}
	a.log.Info("logged out")
	return nil
}

// Profile returns the signed-in user.
func (a *Auth) Profile(ctx context.Context) (*User, error) {
	u, err := httpclient.Get[User](ctx, a.client, pathProfile)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// LoggedIn reports whether an access token is stored.
func (a *Auth) LoggedIn() bool {
	return credentials.Has(a.store)
}

// WithRefresh runs fn and, if it failed with a 401 while a refresh token is
// stored, refreshes the session once and runs fn once more. fn's second
// result is returned as is.
func (a *Auth) WithRefresh(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	if err == nil || !httpclient.IsUnauthorized(err) || a.store.RefreshToken() == "" {
		return err
	}
	a.log.Debug("access token rejected, refreshing")
	if _, rerr := a.Refresh(ctx); rerr != nil {
		return rerr
	}
	return fn(ctx)
}

func (a *Auth) save(resp AuthResponse) error {
	err := credentials.Save(a.store, credentials.Pair{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.Storage(err)
	}
	return nil
}
