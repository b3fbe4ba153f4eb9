// Package keystore locates the TLS key material used by tlsserve.
//
// The keystore is a plain directory holding a PEM certificate chain and
// its PEM private key. Its location is resolved once at startup:
//
//  1. KEYSTORE, used verbatim when set
//  2. $HOME/.config/rembus/keystore
//  3. /tmp/.config/rembus/keystore when HOME is unset
//
// An explicit directory from configuration bypasses the environment.
package keystore
