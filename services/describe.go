package services

import (
	"context"
	stderrors "errors"
	"net"

	"github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
)

// Describe turns a client failure into an *errors.AppError a front-end can
// branch on. Server replies keep their own message and status and are
// returned unchanged, as are errors that are already AppErrors and calls the
// caller cancelled.
func Describe(err error) error {
	if err == nil || errors.IsAppError(err) || stderrors.Is(err, context.Canceled) {
		return err
	}
	switch {
	case httpclient.IsTransport(err) && timedOut(err):
		return errors.Timeout(err)
	case httpclient.IsTransport(err):
		return errors.ConnectionFailed(err)
	case httpclient.IsDecoding(err):
		return errors.UnexpectedResponse(err)
	}
	return err
}

func timedOut(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}
