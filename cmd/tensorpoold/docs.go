package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           tensorpool API
// @version         1.0
// @description     HTTP API for planning tensor memory layouts from graph manifests.
//
// @contact.name   tensorpool maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
