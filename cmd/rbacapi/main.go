// @title                       RBAC API
// @version                     1.0
// @description                 Username/password authentication, bearer tokens and authority-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
// @securityDefinitions.basic   BasicAuth
package main

import "github.com/idenning2003/fullstack/cmd/rbacapi/cmd"

func main() {
	cmd.Execute()
}
