// Package main provides the entry point for tlsserve.
//
// tlsserve serves a directory tree over HTTPS using the key pair found in
// the rembus keystore:
//
//	$KEYSTORE/rembus.crt, $KEYSTORE/rembus.key
//
// or, when KEYSTORE is unset, $HOME/.config/rembus/keystore (with /tmp
// standing in for an unset HOME). It listens on :8443 by default.
package main
