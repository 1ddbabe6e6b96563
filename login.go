package hcs

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/hcskit/client-go/internal/api"
	"github.com/hcskit/client-go/internal/apierrors"
	"github.com/hcskit/client-go/internal/crypto"
	"github.com/hcskit/client-go/internal/keypad"
	"github.com/hcskit/client-go/internal/raon"
)

// Authorization is the result of a successful Login.
type Authorization struct {
	// Token is the session token the portal issued for the account.
	Token string
	// AttemptID correlates the login with the client's log records.
	AttemptID string
}

// Login submits password through the secure keypad protocol.
//
// The password is checked locally first; a malformed password never
// reaches the network. A transport failure before the password is
// submitted restarts the attempt with a new session key and keypad, up to
// WithMaxAttempts times. A refused password returns
// *AuthorizationRejectedError, or *AccountLockedError once the portal's
// failure counter reaches the lock threshold. Login never resubmits a
// password on its own.
func (c *Client) Login(ctx context.Context, password string) (*Authorization, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	a := newAttempt(c.log)

	ok, err := c.apiClient.HasPassword(ctx)
	if err != nil {
		return nil, wrapError(fmt.Errorf("check password: %w", err))
	}
	if !ok {
		return nil, ErrPasswordNotSet
	}

	for {
		res, err := c.runAttempt(ctx, a, password)
		if err == nil {
			return c.finish(a, res)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if a.state < StateSubmitted && apierrors.IsTransport(err) && a.try < c.cfg.maxAttempts {
			a.log.Warn().Err(err).Int("try", a.try).Stringer("state", a.state).Msg("restarting attempt")
			if rerr := a.reset(); rerr != nil {
				return nil, rerr
			}
			continue
		}
		return nil, wrapError(err)
	}
}

// checkPassword rejects anything but exactly four decimal digits.
func checkPassword(password string) error {
	if n := utf8.RuneCountInString(password); n != keypad.PasswordLength {
		return fmt.Errorf("%w: got %d characters", ErrPasswordLength, n)
	}
	for _, r := range password {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidInputCharacter, r)
		}
	}
	return nil
}

// runAttempt drives one try from StateNew to StateSubmitted and returns the
// parsed server answer. The session is destroyed before it returns.
func (c *Client) runAttempt(ctx context.Context, a *attempt, password string) (*api.ValidateResult, error) {
	ks, err := c.apiClient.GetKeypadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("keypad session: %w", err)
	}

	session := crypto.NewSession(crypto.WithRandom(c.cfg.random))
	defer session.Destroy()

	if err := session.SetPublicKey(ks.PublicKey); err != nil {
		return nil, &KeypadError{Stage: StagePublicKey, Err: err}
	}
	if err := a.advance(StatePublicKeySet); err != nil {
		return nil, err
	}

	if err := session.Initialize(); err != nil {
		return nil, &KeypadError{Stage: StageSessionKey, Err: err}
	}
	if err := a.advance(StateSessionKeyGenerated); err != nil {
		return nil, err
	}
	a.log.Debug().Str("instance_id", session.InstanceID()).Msg("session key generated")

	layout, err := ks.Layout()
	if err != nil {
		return nil, &KeypadError{Stage: StageLayout, Err: err}
	}
	if err := a.advance(StateLayoutReceived); err != nil {
		return nil, err
	}

	req, err := c.buildRequest(session, layout, password, string(ks.InitTime))
	if err != nil {
		return nil, err
	}
	if err := a.advance(StateEncoded); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.advance(StateSubmitted); err != nil {
		return nil, err
	}
	return c.apiClient.ValidatePassword(ctx, req)
}

// buildRequest encodes the password and assembles the validation body.
func (c *Client) buildRequest(session *crypto.Session, layout *keypad.Layout, password, initTime string) (raon.Request, error) {
	envelope, err := keypad.NewEncoder(session, layout).EncodePassword(password)
	if err != nil {
		return raon.Request{}, &KeypadError{Stage: StageEncode, Err: err}
	}
	mac, err := session.HMAC([]byte(envelope))
	if err != nil {
		return raon.Request{}, &KeypadError{Stage: StageEncode, Err: err}
	}
	seedKey, err := session.EncryptSessionKey()
	if err != nil {
		return raon.Request{}, &KeypadError{Stage: StageSessionKey, Err: err}
	}
	keyIndex, err := session.EncryptKeyIndex(c.cfg.keyIndex)
	if err != nil {
		return raon.Request{}, &KeypadError{Stage: StageSessionKey, Err: err}
	}

	payload, err := raon.Assemble(raon.Input{
		Envelope: envelope,
		HMAC:     mac,
		KeyIndex: keyIndex,
		SeedKey:  seedKey,
		InitTime: initTime,
	})
	if err != nil {
		return raon.Request{}, &KeypadError{Stage: StagePayload, Err: err}
	}
	return raon.NewRequest(payload), nil
}

// finish maps the server answer onto the terminal state.
func (c *Client) finish(a *attempt, res *api.ValidateResult) (*Authorization, error) {
	switch res.Kind {
	case api.ResultAuthorized:
		if err := a.advance(StateAuthorized); err != nil {
			return nil, err
		}
		a.log.Info().Int("try", a.try).Msg("authorized")
		return &Authorization{Token: res.Token, AttemptID: a.id}, nil

	case api.ResultRejected:
		if err := a.advance(StateRejected); err != nil {
			return nil, err
		}
		threshold := c.cfg.lockThreshold
		if res.FailCount >= threshold {
			a.log.Warn().Int("fail_count", res.FailCount).Int("threshold", threshold).Msg("account locked")
			return nil, &AccountLockedError{FailCount: res.FailCount, Threshold: threshold}
		}
		a.log.Warn().Int("fail_count", res.FailCount).Int("threshold", threshold).Msg("authorization rejected")
		return nil, &AuthorizationRejectedError{
			FailCount: res.FailCount,
			Threshold: threshold,
			ErrorCode: res.ErrorCode,
		}
	}
	return nil, fmt.Errorf("%w: result kind %s", ErrUnexpectedResponse, res.Kind)
}

// IsRetryable reports whether err from Login leaves room for another try
// with a different password.
func IsRetryable(err error) bool {
	var rejected *AuthorizationRejectedError
	return errors.As(err, &rejected) && rejected.Retryable()
}
