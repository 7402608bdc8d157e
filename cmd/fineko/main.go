// @title                       Fineko API
// @version                     1.0
// @description                 Telegram login, company onboarding and credential issuance for Fineko.
// @BasePath                    /
// @securityDefinitions.apikey  Credential
// @in                          cookie
// @name                        auth-token
// @securityDefinitions.apikey  TempToken
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fineko/fineko-api/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
