// Package keypad turns a numeric password into the encrypted envelope the
// portal's virtual keypad would have produced.
//
// The server issues a randomized [Layout] per login attempt: each digit label
// sits at a coordinate pair. Instead of the digit, the client sends, for
// every key press, the coordinate's decimal digits as raw byte values, a
// marker and a random nonce, encrypted as one SEED-CBC block under the fixed
// IV "MobileTransKey10". The blocks are hex rendered and joined into one
// "$"-separated envelope by [Encoder.EncodePassword].
package keypad
