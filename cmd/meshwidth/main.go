// cmd/meshwidth/main.go
package main

import (
	"meshwidth/internal/app"
	"meshwidth/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
