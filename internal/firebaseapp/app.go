// Package firebaseapp builds the Firebase Admin SDK app shared by the
// Firestore document store and the token verifier.
package firebaseapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Credentials selects how the app authenticates against Google APIs.
// CredentialsFile takes precedence over the inline service account fields.
// With neither set, application default credentials are used.
type Credentials struct {
	ProjectID       string
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string
}

// New initializes a Firebase app for the project.
func New(ctx context.Context, c Credentials) (*firebase.App, error) {
	if c.ProjectID == "" {
		return nil, errors.New("firebase project id is required")
	}

	opts, err := clientOptions(c)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: c.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	return app, nil
}

func clientOptions(c Credentials) ([]option.ClientOption, error) {
	switch {
	case c.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}, nil
	case c.ClientEmail != "" && c.PrivateKey != "":
		raw, err := serviceAccountJSON(c)
		if err != nil {
			return nil, err
		}
		return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
	default:
		return nil, nil
	}
}

// serviceAccountJSON assembles a service account key from the inline fields.
// Private keys pasted into environment variables usually carry escaped newlines.
func serviceAccountJSON(c Credentials) ([]byte, error) {
	key := map[string]string{
		"type":         "service_account",
		"project_id":   c.ProjectID,
		"client_email": c.ClientEmail,
		"private_key":  strings.ReplaceAll(c.PrivateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("encoding service account: %w", err)
	}
	return raw, nil
}
