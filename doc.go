// Package hcs provides a Go client for the password step of the Korean
// school self-check portal (hcs.eduro.go.kr).
//
// The portal never accepts a plain password. Each login fetches a virtual
// keypad with randomized key positions and an RSA public key, generates a
// one-time session key, encrypts the coordinates of every pressed key with
// SEED-128 in CBC mode, authenticates the result with HMAC-SHA256 and
// wraps the session key with RSA-OAEP before submitting it.
//
// Basic usage:
//
//	client, err := hcs.New(token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	auth, err := client.Login(ctx, "1234")
//	switch {
//	case errors.Is(err, hcs.ErrAccountLocked):
//	    log.Fatal("account locked")
//	case errors.Is(err, hcs.ErrAuthorizationRejected):
//	    log.Fatal("wrong password")
//	case err != nil:
//	    log.Fatal(err)
//	}
//
//	fmt.Println("token:", auth.Token)
package hcs
