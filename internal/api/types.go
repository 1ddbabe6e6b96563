package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hcskit/client-go/internal/apierrors"
	"github.com/hcskit/client-go/internal/keypad"
)

// Scalar is a JSON value the portal sends either as a string or as a number.
// Numbers keep their literal text.
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = Scalar(num.String())
	return nil
}

// Coordinate is a keypad key position encoded as [x, y]. Each value may be
// a JSON number or a string of decimal digits.
type Coordinate struct {
	X int
	Y int
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw []Scalar
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("coordinate: want 2 values, got %d", len(raw))
	}
	x, err := strconv.Atoi(strings.TrimSpace(string(raw[0])))
	if err != nil {
		return fmt.Errorf("coordinate x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(string(raw[1])))
	if err != nil {
		return fmt.Errorf("coordinate y: %w", err)
	}
	c.X, c.Y = x, y
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

// KeypadSession is the keypad handshake: the server RSA key and the
// randomized layout for one attempt.
type KeypadSession struct {
	PublicKey    string       `json:"publicKey"`
	KeyboardType string       `json:"keyboardType"`
	Labels       []Scalar     `json:"labels"`
	Positions    []Coordinate `json:"positions"`
	InitTime     Scalar       `json:"initTime"`
}

// Validate checks that every field needed to build an attempt is present.
func (s *KeypadSession) Validate() error {
	switch {
	case strings.TrimSpace(s.PublicKey) == "":
		return fmt.Errorf("%w: keypad session has no publicKey", apierrors.ErrUnexpectedResponse)
	case s.KeyboardType == "":
		return fmt.Errorf("%w: keypad session has no keyboardType", apierrors.ErrUnexpectedResponse)
	case len(s.Labels) == 0:
		return fmt.Errorf("%w: keypad session has no labels", apierrors.ErrUnexpectedResponse)
	case len(s.Labels) != len(s.Positions):
		return fmt.Errorf("%w: keypad session has %d labels and %d positions",
			apierrors.ErrUnexpectedResponse, len(s.Labels), len(s.Positions))
	case s.InitTime == "":
		return fmt.Errorf("%w: keypad session has no initTime", apierrors.ErrUnexpectedResponse)
	}
	return nil
}

// Layout converts the session into a validated keypad layout.
func (s *KeypadSession) Layout() (*keypad.Layout, error) {
	labels := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		labels[i] = string(l)
	}
	positions := make([]keypad.Coordinate, len(s.Positions))
	for i, p := range s.Positions {
		positions[i] = keypad.Coordinate{X: p.X, Y: p.Y}
	}
	return keypad.NewLayout(s.KeyboardType, labels, positions)
}

// ResultKind tags a [ValidateResult].
type ResultKind int

const (
	// ResultAuthorized means the password was accepted.
	ResultAuthorized ResultKind = iota + 1
	// ResultRejected means the password was refused and the failure counter
	// was incremented.
	ResultRejected
)

func (k ResultKind) String() string {
	switch k {
	case ResultAuthorized:
		return "authorized"
	case ResultRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ValidateResult is the parsed answer of the password validation endpoint.
type ValidateResult struct {
	Kind ResultKind
	// Token is the new session token when Kind is ResultAuthorized.
	Token string
	// FailCount is the server failure counter when Kind is ResultRejected.
	FailCount int
	// ErrorCode and Message are informational, set on rejection.
	ErrorCode int
	Message   string
}

type validateObject struct {
	IsError   bool   `json:"isError"`
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
	Token     string `json:"token"`
	Data      *struct {
		FailCnt *int   `json:"failCnt"`
		Token   string `json:"token"`
	} `json:"data"`
}

// parseValidateResponse maps a raw validation response onto a result.
// Server faults and shapes it does not recognise become errors.
func parseValidateResponse(status int, body []byte) (*ValidateResult, error) {
	if status >= 500 {
		return nil, parseErrorResponse(status, body)
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var token string
		if err := json.Unmarshal(body, &token); err == nil && token != "" {
			return &ValidateResult{Kind: ResultAuthorized, Token: token}, nil
		}
		return nil, fmt.Errorf("%w: empty token", apierrors.ErrUnexpectedResponse)
	}

	var obj validateObject
	if len(body) > 0 && body[0] == '{' && json.Unmarshal(body, &obj) == nil {
		switch {
		case obj.IsError && obj.Data != nil && obj.Data.FailCnt != nil:
			return &ValidateResult{
				Kind:      ResultRejected,
				FailCount: *obj.Data.FailCnt,
				ErrorCode: obj.ErrorCode,
				Message:   obj.Message,
			}, nil
		case obj.IsError:
			return nil, &apierrors.APIError{StatusCode: status, Message: obj.Message, ErrorCode: obj.ErrorCode}
		case obj.Token != "":
			return &ValidateResult{Kind: ResultAuthorized, Token: obj.Token}, nil
		case obj.Data != nil && obj.Data.Token != "":
			return &ValidateResult{Kind: ResultAuthorized, Token: obj.Data.Token}, nil
		}
	}

	if status >= 400 {
		return nil, parseErrorResponse(status, body)
	}
	return nil, fmt.Errorf("%w: validatePassword returned %q", apierrors.ErrUnexpectedResponse, truncate(string(body), maxErrorMessage))
}
