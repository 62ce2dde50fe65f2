// Package common contains constants shared by the client layers.
package common

// AppName prefixes user-facing output and the default database name.
const AppName = "wellsta"

// AuthorizationHeader carries the bearer token on outbound REST calls.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// GuestUserID scopes per-user storage when nobody is logged in.
const GuestUserID = "guest"
