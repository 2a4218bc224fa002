// Package command exposes go-command compatible handlers for every user info
// mutation: create, update, soft delete, access right grants, Slack identity
// linking and password reset notification. Handlers log activity before
// firing hooks and are wired by the service layer.
package command
