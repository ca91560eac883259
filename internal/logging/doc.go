// Package logging provides shared slog helpers: the attribute-key vocabulary
// used across the server plus sanitizers for tokens and login identities.
package logging
