// Package docs registers the OpenAPI documents of the chat and web
// applications with swag under the instance names "chat" and "web".
package docs
