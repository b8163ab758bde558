// @title        KIND Marketplace API
// @version      1.0
// @description  Contact requests, messaging and provider approvals for a local services marketplace.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "KIND local services marketplace",
	Long: `marketplace runs the KIND API server and its dashboard notification poller.

  serve  HTTP API, SMS outbox workers
  poll   watch unread badges for one account`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd, pollCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
