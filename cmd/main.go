package main

import (
	"go-auth-api/app"

	_ "go-auth-api/docs"
)

// @title           Go-Auth API
// @version         1.0
// @description     User account and session authentication service.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
