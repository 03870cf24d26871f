// Package test holds helpers shared by package and component tests.
package test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/futurehomeno/cliffhanger/manifest"
)

var (
	// Username is the account used in tests.
	Username = "user@example.com"
	// Password is the password used in tests.
	Password = "secret"
	// GIID is the installation id used in tests.
	GIID = "111"
)

// LoadManifest loads and parses app manifest from default test files.
func LoadManifest(t *testing.T) *manifest.Manifest {
	t.Helper()

	f, err := os.ReadFile("./../../testdata/defaults/app-manifest.json")
	if err != nil {
		t.Fatalf("failed to load manifest from file: %+v", err)
	}

	mf := manifest.New()

	err = json.Unmarshal(f, mf)
	if err != nil {
		t.Fatalf("failed to unmarshal manifest: %+v", err)
	}

	return mf
}
