// Package raon assembles the password field the portal's keypad endpoint
// accepts. The server validates the structure strictly: field names,
// nesting and the string-typed ExE2E flag must match exactly.
package raon

import (
	"errors"
	"fmt"
)

const (
	fieldID      = "password"
	fieldType    = "password"
	keyboardType = "number"
	exE2E        = "false"
)

// ErrIncompleteInput is returned when a required payload value is empty.
var ErrIncompleteInput = errors.New("incomplete payload input")

// Field is one encrypted keypad field.
type Field struct {
	ID           string `json:"id"`
	Enc          string `json:"enc"`
	HMAC         string `json:"hmac"`
	KeyboardType string `json:"keyboardType"`
	KeyIndex     string `json:"keyIndex"`
	FieldType    string `json:"fieldType"`
	SeedKey      string `json:"seedKey"`
	InitTime     string `json:"initTime"`
	ExE2E        string `json:"ExE2E"`
}

// Payload is the value of the request's "password" member.
type Payload struct {
	Raon []Field `json:"raon"`
}

// Request is the complete password validation body.
type Request struct {
	Password    Payload `json:"password"`
	DeviceUUID  string  `json:"deviceUuid"`
	MakeSession bool    `json:"makeSession"`
}

// Input holds the per-attempt values that go into the payload.
type Input struct {
	Envelope string
	HMAC     string
	KeyIndex string
	SeedKey  string
	InitTime string
}

// Assemble builds the password payload from one attempt's outputs.
func Assemble(in Input) (Payload, error) {
	missing := ""
	switch {
	case in.Envelope == "":
		missing = "envelope"
	case in.HMAC == "":
		missing = "hmac"
	case in.KeyIndex == "":
		missing = "keyIndex"
	case in.SeedKey == "":
		missing = "seedKey"
	case in.InitTime == "":
		missing = "initTime"
	}
	if missing != "" {
		return Payload{}, fmt.Errorf("%w: %s", ErrIncompleteInput, missing)
	}

	return Payload{
		Raon: []Field{{
			ID:           fieldID,
			Enc:          in.Envelope,
			HMAC:         in.HMAC,
			KeyboardType: keyboardType,
			KeyIndex:     in.KeyIndex,
			FieldType:    fieldType,
			SeedKey:      in.SeedKey,
			InitTime:     in.InitTime,
			ExE2E:        exE2E,
		}},
	}, nil
}

// NewRequest wraps a payload in the outer validation request.
func NewRequest(p Payload) Request {
	return Request{
		Password:    p,
		DeviceUUID:  "",
		MakeSession: true,
	}
}
