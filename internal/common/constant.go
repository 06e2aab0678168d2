// Package common contains constants and sentinel errors shared by the
// Diarify client and server.
package common

// AuthorizationHeaderName carries the bearer credential on REST requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the credential inside the Authorization header.
const BearerPrefix = "Bearer "

// ContentTypeJSON is the default request body type of the REST API.
const ContentTypeJSON = "application/json"

// API route prefixes shared by the REST server and the client wrappers.
const (
	UsersPrefix      = "api/v1/users/"
	CategoriesPrefix = "api/v1/categories/"
	DiariesPrefix    = "api/v1/diaries/"
)

// DiaryImagesField is the multipart field holding diary images.
const DiaryImagesField = "images"
