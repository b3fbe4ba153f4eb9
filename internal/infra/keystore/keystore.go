package keystore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// EnvKeystore overrides the keystore directory.
	EnvKeystore = "KEYSTORE"

	// EnvHome is consulted only when EnvKeystore is unset.
	EnvHome = "HOME"

	// FallbackHome stands in for the home directory when HOME is unset.
	FallbackHome = "/tmp"

	// CertName is the default certificate file name.
	CertName = "rembus.crt"

	// KeyName is the default private key file name.
	KeyName = "rembus.key"
)

// relativeDir is the keystore location below the home directory.
var relativeDir = []string{".config", "rembus", "keystore"}

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Paths holds the resolved keystore directory and the files inside it.
type Paths struct {
	Dir      string
	CertFile string
	KeyFile  string
}

// Resolve computes the keystore paths from the environment seen through lookup.
//
// A variable that is set but empty still counts as set.
func Resolve(lookup LookupFunc) Paths {
	return At(resolveDir(lookup), CertName, KeyName)
}

// DefaultDir returns the keystore directory below home.
func DefaultDir(home string) string {
	return filepath.Join(append([]string{home}, relativeDir...)...)
}

// At builds keystore paths for an explicit directory. Empty names fall back
// to CertName and KeyName.
func At(dir, certName, keyName string) Paths {
	if certName == "" {
		certName = CertName
	}
	if keyName == "" {
		keyName = KeyName
	}
	return Paths{
		Dir:      dir,
		CertFile: filepath.Join(dir, certName),
		KeyFile:  filepath.Join(dir, keyName),
	}
}

// Check reports missing or unreadable key material.
// The returned error wraps fs.ErrNotExist when a file is absent.
func (p Paths) Check() error {
	var errs []error
	for _, path := range []string{p.CertFile, p.KeyFile} {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("keystore: %s: %w", path, err))
			continue
		}
		if info.IsDir() {
			errs = append(errs, fmt.Errorf("keystore: %s: is a directory: %w", path, fs.ErrInvalid))
		}
	}
	return errors.Join(errs...)
}

func resolveDir(lookup LookupFunc) string {
	if dir, ok := lookup(EnvKeystore); ok {
		return dir
	}
	home, ok := lookup(EnvHome)
	if !ok {
		home = FallbackHome
	}
	return DefaultDir(home)
}
