// Package main Uploader Credential Broker API
//
//	@title						Uploader Credential Broker API
//	@version					1.0
//	@description				Issues presigned single-object upload URLs for direct-to-storage uploads.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Upload
//	@tag.description			Upload credential issuance
package main
