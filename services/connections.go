package services

import (
	"context"
	"strings"

	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/validation"
)

const (
	pathPlaid  = "/connections/plaid"
	pathWallet = "/connections/wallet"
)

// ConnectionService links bank accounts and crypto wallets.
type ConnectionService struct {
	client *httpclient.Client
}

// NewConnectionService creates the connections façade.
func NewConnectionService(client *httpclient.Client) *ConnectionService {
	return &ConnectionService{client: client}
}

// PlaidLinkToken starts a Plaid Link session.
func (s *ConnectionService) PlaidLinkToken(ctx context.Context) (string, error) {
	resp, err := httpclient.Post[LinkToken](ctx, s.client, pathPlaid+"/link-token", struct{}{})
	if err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// PlaidExchange completes a Plaid Link session.
func (s *ConnectionService) PlaidExchange(ctx context.Context, in PlaidExchange) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.AccountIDs == nil {
		in.AccountIDs = []string{}
	}
	return httpclient.PostVoid(ctx, s.client, pathPlaid+"/exchange", in)
}

// ConnectWallet tracks a wallet address as a new portfolio.
func (s *ConnectionService) ConnectWallet(ctx context.Context, address, label string) (*Portfolio, error) {
	address = strings.TrimSpace(address)
	if err := validation.New().Required("address", address).Err(); err != nil {
		return nil, err
	}
	body := walletPayload{Address: address, Label: strings.TrimSpace(label)}
	return ptr(httpclient.Post[Portfolio](ctx, s.client, pathWallet, body))
}

// SyncWallet asks the server to re-read wallet id from chain.
func (s *ConnectionService) SyncWallet(ctx context.Context, id string) error {
	p, err := idPath(pathWallet+"/sync", "id", id)
	if err != nil {
		return err
	}
	return httpclient.PostVoid(ctx, s.client, p, struct{}{})
}
