package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Identity is the verified caller behind a Firebase ID token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin reports whether the token carries the admin role claim.
func (i Identity) IsAdmin() bool { return i.Role == "admin" }

// TokenVerifier verifies Firebase ID tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// FirebaseVerifier verifies tokens with the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initialises the Admin SDK. credentialsFile may be empty
// to use application default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify checks the token signature and expiry and extracts the identity.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	id := &Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if role, ok := tok.Claims["role"].(string); ok {
		id.Role = role
	}
	return id, nil
}

// ErrorCode classifies a Firebase Admin error into the client-side code
// understood by MessageForCode. Unknown errors yield "".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case fbauth.IsUserNotFound(err):
		return "user-not-found"
	case fbauth.IsEmailAlreadyExists(err):
		return "email-already-in-use"
	default:
		return ""
	}
}
