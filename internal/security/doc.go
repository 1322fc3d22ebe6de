// Package security implements admin credential verification and session tokens.
package security
