// Package google adapts stored OAuth2 credentials into authenticated HTTP
// clients for Google APIs, and drives the web authorization-code flow used
// to obtain those credentials in the first place.
package google
