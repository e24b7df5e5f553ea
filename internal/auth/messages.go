package auth

var authMessages = map[string]string{
	"auth/user-not-found":         "Invalid email or password.",
	"auth/wrong-password":         "Invalid email or password.",
	"auth/email-already-in-use":   "An account with this email already exists.",
	"auth/weak-password":          "Password should be at least 6 characters.",
	"auth/invalid-email":          "Please enter a valid email address.",
	"auth/too-many-requests":      "Too many failed attempts. Please try again later.",
	"auth/network-request-failed": "Network error. Please check your connection.",
}

// MessageForCode maps a Firebase auth error code to a user-facing message.
// Codes are accepted with or without the "auth/" prefix.
func MessageForCode(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	if msg, ok := authMessages["auth/"+code]; ok {
		return msg
	}
	return "An error occurred. Please try again."
}
