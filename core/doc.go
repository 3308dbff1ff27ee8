// Package core holds the shared domain contracts of stride: role-tagged
// chat messages, run timing and token accounting. Higher layers (memory,
// model, agent) depend on core; core itself stays dependency-light.
package core
