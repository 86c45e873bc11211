// Package services holds one façade per Unitrack API domain.
//
// A façade knows its endpoint paths and payload shapes and hands transport
// to httpclient. Every method takes a context first and returns the
// httpclient error kinds unchanged, wrapped in an errors.AppError only where
// the domain adds meaning (a rejected login, an expired session):
//
//	client, _ := httpclient.New(cfg.API, store)
//	svc := services.New(client, store)
//	resp, err := svc.Auth.Login(ctx, services.AuthRequest{Email: e, Password: p})
//	dash, err := svc.LoadDashboard(ctx)
package services
