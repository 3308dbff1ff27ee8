// Package session maps session ids to long-lived agents. Each session owns
// one Agent and therefore one memory log; concurrent chats on different
// sessions never share state, while repeated requests on the same session
// continue the same conversation.
//
// Add additional backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code. Only the wiring layer decides which
// implementation to instantiate.
package session
