// Package config manages level definitions on disk: loading and validating
// level JSON files, caching them, resolving the default level, and writing
// generated or edited levels back.
package config
